package domain

import "time"

// Booking links a user to an activity. It references both aggregates by
// identifier only; activity display fields are joined at read time, never
// stored on the booking.
//
// Invariant: at most one booking exists per (user, activity) pair. The store
// enforces this with a uniqueness constraint on the pair.
type Booking struct {
	ID         BookingID
	UserID     UserID
	ActivityID ActivityID

	// BookedAt is the booking timestamp, defaulting to creation time.
	BookedAt time.Time
}

// BookedActivity is the read-time projection of a booking enriched with the
// referenced activity's display fields.
type BookedActivity struct {
	Booking
	Activity Activity
}

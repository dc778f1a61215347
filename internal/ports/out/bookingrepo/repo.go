package bookingrepo

import (
	"context"
	"time"

	"github.com/cityplay/activity-booking-api/internal/domain"
)

// Booking is the persistence shape used by the booking repository. It stores
// references only; activity display fields are never duplicated at rest.
type Booking struct {
	ID         domain.BookingID
	UserID     domain.UserID
	ActivityID domain.ActivityID

	BookedAt time.Time
}

// Repository provides access to the booking ledger.
type Repository interface {
	// Create persists a new booking. The insert is conditional on the
	// (user, activity) pair being unused: a second booking for the same pair
	// returns ErrAlreadyBooked, atomically with respect to concurrent creates.
	Create(ctx context.Context, b Booking) error

	// ListByUser returns all bookings owned by the user, ordered by booking
	// time ascending.
	ListByUser(ctx context.Context, userID domain.UserID) ([]Booking, error)

	// DeleteAll removes every booking. It exists for the seeder.
	DeleteAll(ctx context.Context) error
}

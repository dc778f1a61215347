package domain

import "github.com/google/uuid"

// UserID is an internal identifier for a user record.
type UserID string

// ActivityID is an internal identifier for an activity record.
type ActivityID string

// BookingID is an internal identifier for a booking record.
type BookingID string

// ValidID reports whether raw is a well-formed identifier.
// Identifiers are UUID strings; anything else is rejected before any store lookup.
func ValidID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}

package bookingrepo

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrAlreadyBooked indicates a booking already exists for the
	// (user, activity) pair.
	ErrAlreadyBooked = errors.New("activity already booked by user")
)

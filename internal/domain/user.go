package domain

import "time"

// User is the domain representation of a registered account.
//
// PasswordHash is intentionally absent: credential material never leaves the
// user repository except through the explicit credentials lookup used by login.
type User struct {
	ID    UserID
	Name  string
	Email string
	Phone string

	CreatedAt time.Time
}

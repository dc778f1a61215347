package auth

import "github.com/cityplay/activity-booking-api/internal/domain"

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the result of a successful registration or login.
type Session struct {
	User  domain.User
	Token string
}

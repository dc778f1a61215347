package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/platform/password"
	"github.com/cityplay/activity-booking-api/internal/platform/token"
	clockport "github.com/cityplay/activity-booking-api/internal/ports/out/clock"
	"github.com/cityplay/activity-booking-api/internal/ports/out/userrepo"
)

const (
	maxNameLen  = 50
	minPassword = 6
)

// Service implements registration, login and token-to-user resolution.
type Service struct {
	users  userrepo.Repository
	tokens *token.Service
	clk    clockport.Clock

	newUserID func() domain.UserID
}

func NewService(users userrepo.Repository, tokens *token.Service, clk clockport.Clock) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		clk:    clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

// Register validates the input, persists a new user with a derived password
// hash (never the plaintext) and returns a session with a freshly issued token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	name := domain.NormalizeHumanName(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	fields := map[string]any{}
	switch {
	case name == "":
		fields["name"] = "Please add a name"
	case len([]rune(name)) > maxNameLen:
		fields["name"] = "Name cannot be more than 50 characters"
	}
	if !domain.ValidEmail(email) {
		fields["email"] = "Please add a valid email"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "Please add a phone number"
	}
	if len(in.Password) < minPassword {
		fields["password"] = "Please enter a password with 6 or more characters"
	}
	if len(fields) > 0 {
		return Session{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid registration", Details: fields}
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return Session{}, err
	}

	u := userrepo.User{
		ID:           s.newUserID(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		CreatedAt:    s.clk.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			// Duplicates report as 400, not 409; clients key off the message.
			return Session{}, &Error{Status: 400, Code: "EMAIL_TAKEN", Message: "Duplicate field value entered"}
		}
		return Session{}, err
	}

	t, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: toDomain(u), Token: t}, nil
}

// Login verifies credentials and returns a session. Unknown email and wrong
// password produce the identical error so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return Session{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "Please provide email and password"}
	}

	invalid := &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}

	u, err := s.users.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, invalid
		}
		return Session{}, err
	}
	if !password.Verify(u.PasswordHash, in.Password) {
		return Session{}, invalid
	}

	t, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: toDomain(u), Token: t}, nil
}

// ResolveToken maps a presented bearer token to a known user. Any failure
// (bad token, expired token, deleted account) reports the same unauthenticated
// error.
func (s *Service) ResolveToken(ctx context.Context, raw string) (domain.User, error) {
	unauthenticated := &Error{Status: 401, Code: "UNAUTHORIZED", Message: "Not authorized to access this route"}

	id, err := s.tokens.Resolve(raw)
	if err != nil {
		return domain.User{}, unauthenticated
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, unauthenticated
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

func toDomain(u userrepo.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

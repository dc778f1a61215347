// Package token issues and resolves the bearer tokens used by the HTTP API.
//
// Tokens are HS256 JWTs signed with a server secret from deployment
// configuration. The payload carries the user identifier and an expiration.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cityplay/activity-booking-api/internal/domain"
	clockport "github.com/cityplay/activity-booking-api/internal/ports/out/clock"
)

var (
	// ErrTokenInvalid indicates the token failed signature or shape checks.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired indicates a well-formed token past its expiration.
	ErrTokenExpired = errors.New("token expired")
)

// DefaultTTL is the token lifetime when configuration does not override it.
const DefaultTTL = 7 * 24 * time.Hour

// Claims is the JWT payload: the user identifier plus registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Service signs and verifies bearer tokens with symmetric HMAC.
type Service struct {
	secret []byte
	ttl    time.Duration
	clk    clockport.Clock
}

// New creates a token service. A zero ttl falls back to DefaultTTL.
func New(secret string, ttl time.Duration, clk clockport.Clock) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, clk: clk}
}

// Issue produces a signed token embedding the user identifier.
func (s *Service) Issue(userID domain.UserID) (string, error) {
	now := s.clk.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: string(userID),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve verifies signature and expiry and returns the embedded user ID.
func (s *Service) Resolve(raw string) (domain.UserID, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clk.Now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !tok.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return domain.UserID(claims.UserID), nil
}

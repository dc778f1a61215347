package httpapi

import (
	"context"

	"github.com/cityplay/activity-booking-api/internal/domain"
)

type userKey struct{}

// WithUser stores the authenticated user on the request context.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext retrieves the user stored by WithUser.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(domain.User)
	return u, ok && u.ID != ""
}

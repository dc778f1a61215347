package activityrepo

import (
	"context"
	"time"

	"github.com/cityplay/activity-booking-api/internal/domain"
)

// Activity is the persistence shape used by the activity repository.
type Activity struct {
	ID          domain.ActivityID
	Title       string
	Description string
	Location    string
	Date        time.Time
	Time        string

	CreatedAt time.Time
}

// Repository provides access to persisted activities.
//
// List returns results ordered by date ascending (creation time as tiebreaker)
// to keep behavior deterministic across backends.
type Repository interface {
	Create(ctx context.Context, a Activity) error

	GetByID(ctx context.Context, id domain.ActivityID) (Activity, error)

	List(ctx context.Context) ([]Activity, error)

	// DeleteAll removes every activity. It exists for the seeder.
	DeleteAll(ctx context.Context) error
}

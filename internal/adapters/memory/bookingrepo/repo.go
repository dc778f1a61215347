package bookingrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/ports/out/bookingrepo"
)

type pair struct {
	userID     domain.UserID
	activityID domain.ActivityID
}

// Repo is an in-memory implementation of bookingrepo.Repository.
// It is safe for concurrent use; the single mutex makes the conditional
// insert atomic, so a duplicate (user, activity) pair can never slip through
// between check and write.
type Repo struct {
	mu     sync.RWMutex
	byPair map[pair]bookingrepo.Booking
}

func NewRepo() *Repo {
	return &Repo{byPair: make(map[pair]bookingrepo.Booking)}
}

func (r *Repo) Create(ctx context.Context, b bookingrepo.Booking) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pair{userID: b.UserID, activityID: b.ActivityID}
	if _, ok := r.byPair[k]; ok {
		return bookingrepo.ErrAlreadyBooked
	}
	r.byPair[k] = b
	return nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]bookingrepo.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]bookingrepo.Booking, 0)
	for k, b := range r.byPair {
		if k.userID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookedAt.Equal(out[j].BookedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].BookedAt.Before(out[j].BookedAt)
	})
	return out, nil
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPair = make(map[pair]bookingrepo.Booking)
	return nil
}

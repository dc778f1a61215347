package activityrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
)

// Repo is an in-memory implementation of activityrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex
	m  map[domain.ActivityID]activityrepo.Activity
}

func NewRepo() *Repo {
	return &Repo{m: make(map[domain.ActivityID]activityrepo.Activity)}
}

func (r *Repo) Create(ctx context.Context, a activityrepo.Activity) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[a.ID]; ok {
		return activityrepo.ErrAlreadyExists
	}
	r.m[a.ID] = a
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (activityrepo.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.m[id]
	if !ok {
		return activityrepo.Activity{}, activityrepo.ErrNotFound
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]activityrepo.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]activityrepo.Activity, 0, len(r.m))
	for _, a := range r.m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = make(map[domain.ActivityID]activityrepo.Activity)
	return nil
}

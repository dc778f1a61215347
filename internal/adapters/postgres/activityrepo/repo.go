package activityrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/cityplay/activity-booking-api/internal/adapters/postgres"
	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
)

// Repo is a Postgres implementation of activityrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a activityrepo.Activity) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return fmt.Errorf("invalid activity id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO activities (external_id, title, description, location, activity_date, activity_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, a.Title, a.Description, a.Location, a.Date.UTC(), a.Time, a.CreatedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return activityrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (activityrepo.Activity, error) {
	if r.pool == nil {
		return activityrepo.Activity{}, errors.New("nil postgres pool")
	}
	aid, err := uuid.Parse(string(id))
	if err != nil {
		return activityrepo.Activity{}, activityrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `
		SELECT title, description, location, activity_date, activity_time, created_at
		FROM activities
		WHERE external_id = $1
	`, aid)
	a := activityrepo.Activity{ID: id}
	var date, createdAt time.Time
	if err := row.Scan(&a.Title, &a.Description, &a.Location, &date, &a.Time, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activityrepo.Activity{}, activityrepo.ErrNotFound
		}
		return activityrepo.Activity{}, err
	}
	a.Date = date.UTC()
	a.CreatedAt = createdAt.UTC()
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]activityrepo.Activity, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT external_id, title, description, location, activity_date, activity_time, created_at
		FROM activities
		ORDER BY activity_date ASC, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activityrepo.Activity, 0)
	for rows.Next() {
		var (
			id              uuid.UUID
			a               activityrepo.Activity
			date, createdAt time.Time
		)
		if err := rows.Scan(&id, &a.Title, &a.Description, &a.Location, &date, &a.Time, &createdAt); err != nil {
			return nil, err
		}
		a.ID = domain.ActivityID(id.String())
		a.Date = date.UTC()
		a.CreatedAt = createdAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DeleteAll(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM activities`)
	return err
}

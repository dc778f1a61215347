package bookingrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/cityplay/activity-booking-api/internal/adapters/postgres"
	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/ports/out/bookingrepo"
)

// Repo is a Postgres implementation of bookingrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts conditionally on the (user, activity) uniqueness constraint.
// The store is the arbiter: two concurrent creates for the same pair cannot
// both succeed, with no application-level check involved.
func (r *Repo) Create(ctx context.Context, b bookingrepo.Booking) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	bid, err := uuid.Parse(string(b.ID))
	if err != nil {
		return fmt.Errorf("invalid booking id: %w", err)
	}
	uid, err := uuid.Parse(string(b.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	aid, err := uuid.Parse(string(b.ActivityID))
	if err != nil {
		return fmt.Errorf("invalid activity id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (external_id, user_id, activity_id, booked_at)
		VALUES (
			$1,
			(SELECT id FROM users WHERE external_id = $2),
			(SELECT id FROM activities WHERE external_id = $3),
			$4
		)
		ON CONFLICT (user_id, activity_id) DO NOTHING
	`, bid, uid, aid, b.BookedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return bookingrepo.ErrAlreadyBooked
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return bookingrepo.ErrAlreadyBooked
	}
	return nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]bookingrepo.Booking, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return []bookingrepo.Booking{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT b.external_id, a.external_id, b.booked_at
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN activities a ON a.id = b.activity_id
		WHERE u.external_id = $1
		ORDER BY b.booked_at ASC, b.external_id ASC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookingrepo.Booking, 0)
	for rows.Next() {
		var (
			bid, aid uuid.UUID
			bookedAt time.Time
		)
		if err := rows.Scan(&bid, &aid, &bookedAt); err != nil {
			return nil, err
		}
		out = append(out, bookingrepo.Booking{
			ID:         domain.BookingID(bid.String()),
			UserID:     userID,
			ActivityID: domain.ActivityID(aid.String()),
			BookedAt:   bookedAt.UTC(),
		})
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
	_, err := r.pool.Exec(ctx, `DELETE FROM bookings`)
	return err
}

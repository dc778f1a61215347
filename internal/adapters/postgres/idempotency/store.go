package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cityplay/activity-booking-api/internal/ports/out/idempotency"
)

// Store is a Postgres implementation of idempotency.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(fp.UserID))
	if err != nil {
		return idempotency.Record{}, false, nil
	}

	row := s.pool.QueryRow(ctx, `
		SELECT status_code, content_type, body, created_at
		FROM idempotency_records
		WHERE idem_key = $1 AND user_id = $2 AND method = $3 AND route = $4 AND body_hash = $5
	`, string(fp.Key), uid, fp.Method, fp.Route, fp.BodyHash)
	var (
		rec       idempotency.Record
		createdAt time.Time
	)
	if err := row.Scan(&rec.StatusCode, &rec.ContentType, &rec.Body, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, err
	}
	rec.CreatedAt = createdAt.UTC()
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(fp.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO idempotency_records (idem_key, user_id, method, route, body_hash, status_code, content_type, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (idem_key, user_id, method, route, body_hash) DO UPDATE
		SET status_code = EXCLUDED.status_code,
		    content_type = EXCLUDED.content_type,
		    body = EXCLUDED.body,
		    created_at = EXCLUDED.created_at
	`, string(fp.Key), uid, fp.Method, fp.Route, fp.BodyHash, rec.StatusCode, rec.ContentType, rec.Body, rec.CreatedAt.UTC())
	return err
}

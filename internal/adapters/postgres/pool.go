// Package postgres holds shared helpers for the pgx adapters.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cityplay/activity-booking-api/internal/platform/logger"
)

// PoolOptions tunes pool construction and the bounded initial connect.
type PoolOptions struct {
	// ConnectTimeout bounds each connection attempt. Zero means 5s.
	ConnectTimeout time.Duration
	// ConnectRetries is the number of additional attempts after a failed
	// first attempt.
	ConnectRetries int
	// RetryDelay is the pause between attempts. Zero means 3s.
	RetryDelay time.Duration
}

// NewPool builds a connection pool for dsn without requiring the store to be
// reachable: pool creation only parses configuration.
func NewPool(ctx context.Context, dsn string, _ PoolOptions) (*pgxpool.Pool, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("open connection pool: %w", err)
	}
	return pool, nil
}

// Connect creates a pool and performs a bounded initial connect: up to
// 1+ConnectRetries ping attempts, RetryDelay apart, each capped at
// ConnectTimeout. It reports whether the store answered; an unreachable store
// is not an error, the caller runs degraded until the monitor sees recovery.
func Connect(ctx context.Context, dsn string, opts PoolOptions, log *logger.Logger) (*pgxpool.Pool, bool, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 3 * time.Second
	}

	pool, err := NewPool(ctx, dsn, opts)
	if err != nil {
		return nil, false, err
	}

	attempts := 1 + opts.ConnectRetries
	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			log.Info("store connected")
			return pool, true, nil
		}
		log.Warn("store connection attempt failed",
			"attempt", i,
			"of", attempts,
			"error", err)
		if i < attempts {
			select {
			case <-ctx.Done():
				return pool, false, nil
			case <-time.After(opts.RetryDelay):
			}
		}
	}
	log.Error("store unreachable after all attempts, continuing without it")
	return pool, false, nil
}

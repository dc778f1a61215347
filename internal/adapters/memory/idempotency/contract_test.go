package idempotency

import (
	"testing"

	"github.com/cityplay/activity-booking-api/internal/adapters/contracttest"
	idempotencyport "github.com/cityplay/activity-booking-api/internal/ports/out/idempotency"
)

func TestContract_MemoryIdempotencyStore(t *testing.T) {
	t.Parallel()

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(), nil
	})
}

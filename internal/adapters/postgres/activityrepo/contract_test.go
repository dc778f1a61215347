package activityrepo

import (
	"testing"

	"github.com/cityplay/activity-booking-api/internal/adapters/contracttest"
	"github.com/cityplay/activity-booking-api/internal/adapters/postgres/testutil"
	activityrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
)

func TestContract_PostgresActivityRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunActivityRepo(t, func(t *testing.T) (activityrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}

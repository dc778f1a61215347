// Package contracttest holds behavior contracts every repository
// implementation must satisfy. The same contracts run against the memory and
// postgres backends.
package contracttest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cityplay/activity-booking-api/internal/domain"
	activityrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
	bookingrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/bookingrepo"
	idempotencyport "github.com/cityplay/activity-booking-api/internal/ports/out/idempotency"
	userrepoport "github.com/cityplay/activity-booking-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type ActivityRepoFactory func(t *testing.T) (activityrepoport.Repository, CleanupFunc)

// BookingFixture provides a booking repository plus the user/activity repos it
// references, so the contract can create valid referents first.
type BookingFixture struct {
	Bookings   bookingrepoport.Repository
	Users      userrepoport.Repository
	Activities activityrepoport.Repository
}

type BookingRepoFactory func(t *testing.T) (BookingFixture, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:           aID,
		Name:         "Ann Example",
		Email:        "ann@example.com",
		Phone:        "555-0100",
		PasswordHash: "$2a$10$fakehashfakehashfakehas",
		CreatedAt:    now,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("GetByID leaked password hash")
	}
	if got.Name != "Ann Example" || got.Email != "ann@example.com" || got.Phone != "555-0100" {
		t.Fatalf("unexpected user: %+v", got)
	}

	creds, err := repo.GetCredentialsByEmail(ctx, "ann@example.com")
	if err != nil {
		t.Fatalf("GetCredentialsByEmail: %v", err)
	}
	if creds.PasswordHash == "" {
		t.Fatalf("credentials read must include the hash")
	}
	if creds.ID != aID {
		t.Fatalf("credentials id=%q want %q", creds.ID, aID)
	}

	// Email uniqueness is enforced by the store.
	err = repo.Create(ctx, userrepoport.User{
		ID:           domain.UserID(uuid.NewString()),
		Name:         "Ann Clone",
		Email:        "ann@example.com",
		Phone:        "555-0101",
		PasswordHash: "$2a$10$fakehashfakehashfakehas",
		CreatedAt:    now,
	})
	if !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("duplicate email err=%v, want ErrEmailTaken", err)
	}

	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("unknown id err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetCredentialsByEmail(ctx, "nobody@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("unknown email err=%v, want ErrNotFound", err)
	}
}

func RunActivityRepo(t *testing.T, newRepo ActivityRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	first := activityrepoport.Activity{
		ID:          domain.ActivityID(uuid.NewString()),
		Title:       "Hiking Adventure",
		Description: "A scenic hike.",
		Location:    "Mountain Trail Park",
		Date:        time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Time:        "09:00 AM",
		CreatedAt:   now,
	}
	second := activityrepoport.Activity{
		ID:          domain.ActivityID(uuid.NewString()),
		Title:       "Yoga Class",
		Description: "All levels.",
		Location:    "Wellness Center",
		Date:        time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
		Time:        "10:30 AM",
		CreatedAt:   now.Add(time.Second),
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != first.Title || !got.Date.Equal(first.Date) || got.Time != first.Time {
		t.Fatalf("unexpected activity: %+v", got)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list)=%d, want 2", len(list))
	}
	// Ordered by date ascending.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("unexpected order: %q then %q", list[0].Title, list[1].Title)
	}

	if _, err := repo.GetByID(ctx, domain.ActivityID(uuid.NewString())); !errors.Is(err, activityrepoport.ErrNotFound) {
		t.Fatalf("unknown id err=%v, want ErrNotFound", err)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after DeleteAll: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("len(list)=%d after DeleteAll, want 0", len(list))
	}
}

func RunBookingRepo(t *testing.T, newFixture BookingRepoFactory) {
	t.Helper()
	ctx := context.Background()

	fx, cleanup := newFixture(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	userID := domain.UserID(uuid.NewString())
	if err := fx.Users.Create(ctx, userrepoport.User{
		ID:           userID,
		Name:         "Booker",
		Email:        "booker@example.com",
		Phone:        "555-0200",
		PasswordHash: "$2a$10$fakehashfakehashfakehas",
		CreatedAt:    now,
	}); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	actID := domain.ActivityID(uuid.NewString())
	if err := fx.Activities.Create(ctx, activityrepoport.Activity{
		ID:          actID,
		Title:       "Cooking Workshop",
		Description: "With a chef.",
		Location:    "Culinary Institute",
		Date:        time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		Time:        "06:00 PM",
		CreatedAt:   now,
	}); err != nil {
		t.Fatalf("Create activity: %v", err)
	}

	b := bookingrepoport.Booking{
		ID:         domain.BookingID(uuid.NewString()),
		UserID:     userID,
		ActivityID: actID,
		BookedAt:   now,
	}
	if err := fx.Bookings.Create(ctx, b); err != nil {
		t.Fatalf("Create booking: %v", err)
	}

	// Second booking for the same pair must fail.
	err := fx.Bookings.Create(ctx, bookingrepoport.Booking{
		ID:         domain.BookingID(uuid.NewString()),
		UserID:     userID,
		ActivityID: actID,
		BookedAt:   now.Add(time.Second),
	})
	if !errors.Is(err, bookingrepoport.ErrAlreadyBooked) {
		t.Fatalf("duplicate pair err=%v, want ErrAlreadyBooked", err)
	}

	got, err := fx.Bookings.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 1 || got[0].ID != b.ID || got[0].ActivityID != actID {
		t.Fatalf("unexpected bookings: %+v", got)
	}

	if got, err := fx.Bookings.ListByUser(ctx, domain.UserID(uuid.NewString())); err != nil || len(got) != 0 {
		t.Fatalf("unknown user: got=%v err=%v, want empty", got, err)
	}
}

// RunBookingRepoRace verifies the conditional insert is atomic: many
// concurrent creates for one (user, activity) pair yield exactly one success.
func RunBookingRepoRace(t *testing.T, newFixture BookingRepoFactory) {
	t.Helper()
	ctx := context.Background()

	fx, cleanup := newFixture(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(4000, 0).UTC()
	userID := domain.UserID(uuid.NewString())
	if err := fx.Users.Create(ctx, userrepoport.User{
		ID:           userID,
		Name:         "Racer",
		Email:        "racer@example.com",
		Phone:        "555-0300",
		PasswordHash: "$2a$10$fakehashfakehashfakehas",
		CreatedAt:    now,
	}); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	actID := domain.ActivityID(uuid.NewString())
	if err := fx.Activities.Create(ctx, activityrepoport.Activity{
		ID:          actID,
		Title:       "Photography Tour",
		Description: "Nature shots.",
		Location:    "City Gardens",
		Date:        time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		Time:        "02:00 PM",
		CreatedAt:   now,
	}); err != nil {
		t.Fatalf("Create activity: %v", err)
	}

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fx.Bookings.Create(ctx, bookingrepoport.Booking{
				ID:         domain.BookingID(uuid.NewString()),
				UserID:     userID,
				ActivityID: actID,
				BookedAt:   now,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, bookingrepoport.ErrAlreadyBooked):
				conflicts++
			default:
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != attempts-1 {
		t.Fatalf("succeeded=%d conflicts=%d, want 1 and %d", succeeded, conflicts, attempts-1)
	}
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		UserID:   domain.UserID(uuid.NewString()),
		Method:   "POST",
		Route:    "/api/bookings",
		BodyHash: "abc123",
	}
	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got.StatusCode != 201 || got.ContentType != "application/json" || string(got.Body) != `{"success":true}` {
		t.Fatalf("unexpected record: ok=%v %+v", ok, got)
	}

	// A different body hash is a different fingerprint.
	other := fp
	other.BodyHash = "def456"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other fingerprint: ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"success":true,"n":2}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"success":true,"n":2}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cityplay/activity-booking-api/internal/adapters/httpapi"
	memactivityrepo "github.com/cityplay/activity-booking-api/internal/adapters/memory/activityrepo"
	membookingrepo "github.com/cityplay/activity-booking-api/internal/adapters/memory/bookingrepo"
	memclock "github.com/cityplay/activity-booking-api/internal/adapters/memory/clock"
	memidempotency "github.com/cityplay/activity-booking-api/internal/adapters/memory/idempotency"
	memuserrepo "github.com/cityplay/activity-booking-api/internal/adapters/memory/userrepo"
	"github.com/cityplay/activity-booking-api/internal/app/activities"
	"github.com/cityplay/activity-booking-api/internal/app/auth"
	"github.com/cityplay/activity-booking-api/internal/app/bookings"
	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/platform/logger"
	"github.com/cityplay/activity-booking-api/internal/platform/token"
	"github.com/cityplay/activity-booking-api/internal/ports/out/userrepo"
)

// countingUserRepo wraps a user repository and counts reads, so tests can
// assert that rejected requests never touch the store.
type countingUserRepo struct {
	userrepo.Repository
	reads atomic.Int64
}

func (c *countingUserRepo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	c.reads.Add(1)
	return c.Repository.GetByID(ctx, id)
}

func (c *countingUserRepo) GetCredentialsByEmail(ctx context.Context, email string) (userrepo.User, error) {
	c.reads.Add(1)
	return c.Repository.GetCredentialsByEmail(ctx, email)
}

type testAPI struct {
	handler   http.Handler
	users     *countingUserRepo
	clk       *memclock.ManualClock
	connected *atomic.Bool
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	users := &countingUserRepo{Repository: memuserrepo.NewRepo()}
	activityRepo := memactivityrepo.NewRepo()
	bookingRepo := membookingrepo.NewRepo()

	tokens := token.New("test-secret", 0, clk)
	log := logger.New(8)

	var connected atomic.Bool
	connected.Store(true)

	handler := httpapi.NewRouter(httpapi.RouterOptions{
		Auth:           auth.NewService(users, tokens, clk),
		Activities:     activities.NewService(activityRepo, clk),
		Bookings:       bookings.NewService(bookingRepo, activityRepo, clk),
		Connected:      connected.Load,
		Idempotency:    memidempotency.NewStore(),
		Clock:          clk,
		Logger:         log,
		AllowedOrigins: []string{"*"},
	})
	return &testAPI{handler: handler, users: users, clk: clk, connected: &connected}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Token   string          `json:"token"`
	Error   string          `json:"error"`
	Errors  map[string]any  `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": email, "phone": "555", "password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode(t, rec).Token
}

func (a *testAPI) createActivity(t *testing.T, token, title string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/activities", token, map[string]string{
		"title": title, "description": "d", "location": "l", "date": "2024-06-15", "time": "09:00 AM",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create activity: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var act struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &act); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	return act.ID
}

func TestHealthReportsConnectivity(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var data struct {
		DBConnected bool `json:"dbConnected"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !data.DBConnected {
		t.Fatal("dbConnected = false, want true")
	}

	api.connected.Store(false)
	rec = api.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health with store down: status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(decode(t, rec).Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.DBConnected {
		t.Fatal("dbConnected = true, want false")
	}
}

func TestBookingScenario(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tok := api.register(t, "a@x.com")
	actID := api.createActivity(t, tok, "Hiking")

	rec := api.do(t, http.MethodPost, "/api/activities/"+actID+"/book", tok, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/api/activities/"+actID+"/book", tok, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("rebook: status = %d, want 400", rec.Code)
	}
	if resp := decode(t, rec); !strings.Contains(resp.Error, "already booked") {
		t.Fatalf("rebook error = %q", resp.Error)
	}

	rec = api.do(t, http.MethodGet, "/api/bookings/me", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bookings/me: status = %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Count == nil || *resp.Count != 1 {
		t.Fatalf("count = %v, want 1", resp.Count)
	}
	var list []struct {
		Activity struct {
			Title string `json:"title"`
		} `json:"activity"`
	}
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Activity.Title != "Hiking" {
		t.Fatalf("joined list = %+v, want one booking titled Hiking", list)
	}
}

func TestBookViaCollectionEndpoint(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tok := api.register(t, "a@x.com")
	actID := api.createActivity(t, tok, "Hiking")

	rec := api.do(t, http.MethodPost, "/api/bookings", tok, map[string]string{"activity": actID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var b struct {
		Activity struct {
			Title string `json:"title"`
		} `json:"activity"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Activity.Title != "Hiking" {
		t.Fatalf("joined title = %q", b.Activity.Title)
	}
}

func TestMissingTokenRejectedWithoutStoreAccess(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/activities"},
		{http.MethodGet, "/api/bookings/me"},
		{http.MethodPost, "/api/bookings"},
	}
	for _, p := range paths {
		rec := api.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", p.method, p.path, rec.Code)
		}
	}
	if n := api.users.reads.Load(); n != 0 {
		t.Fatalf("store reads = %d, want 0", n)
	}
}

func TestBadTokenRejected(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	for _, header := range []string{"Bearer garbage", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tok := api.register(t, "a@x.com")
	api.clk.Advance(8 * 24 * time.Hour)

	rec := api.do(t, http.MethodGet, "/api/bookings/me", tok, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMalformedActivityID(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/activities/zzz-not-a-uuid", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownActivityID(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/activities/2a2e614d-2c1f-4f60-9c1f-0e6f3d2b0a11", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decode(t, rec); resp.Error != "Activity not found" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestDuplicateEmail(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	api.register(t, "a@x.com")
	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": "a@x.com", "phone": "555", "password": "secret1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decode(t, rec); resp.Error != "Duplicate field value entered" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestRegisterValidationDetails(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decode(t, rec)
	for _, field := range []string{"name", "email", "phone", "password"} {
		if _, ok := resp.Errors[field]; !ok {
			t.Errorf("missing field error for %q in %v", field, resp.Errors)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	api.register(t, "a@x.com")
	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if resp := decode(t, rec); resp.Error != "Invalid credentials" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	api.connected.Store(false)

	rec := api.do(t, http.MethodGet, "/api/activities", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if resp := decode(t, rec); resp.Error != "Database connection unavailable" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestIdempotentBookingReplay(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tok := api.register(t, "a@x.com")
	actID := api.createActivity(t, tok, "Hiking")

	path := "/api/activities/" + actID + "/book"
	first := api.do(t, http.MethodPost, path, tok, nil, "Idempotency-Key", "key-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("first: status = %d, body = %s", first.Code, first.Body.String())
	}

	second := api.do(t, http.MethodPost, path, tok, nil, "Idempotency-Key", "key-1")
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: status = %d, want 201", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}

	// A different key is a fresh request and hits the uniqueness rule.
	third := api.do(t, http.MethodPost, path, tok, nil, "Idempotency-Key", "key-2")
	if third.Code != http.StatusBadRequest {
		t.Fatalf("new key: status = %d, want 400", third.Code)
	}

	rec := api.do(t, http.MethodGet, "/api/bookings/me", tok, nil)
	if resp := decode(t, rec); resp.Count == nil || *resp.Count != 1 {
		t.Fatalf("count = %v, want 1", resp.Count)
	}
}

func TestListActivitiesEnvelope(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tok := api.register(t, "a@x.com")
	for i := 0; i < 3; i++ {
		api.createActivity(t, tok, fmt.Sprintf("Activity %d", i))
	}

	rec := api.do(t, http.MethodGet, "/api/activities", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode(t, rec)
	if !resp.Success {
		t.Fatal("success = false")
	}
	if resp.Count == nil || *resp.Count != 3 {
		t.Fatalf("count = %v, want 3", resp.Count)
	}
	var list []struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 3 || list[0].Date != "2024-06-15" {
		t.Fatalf("list = %+v", list)
	}
}

func TestMe(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tok := api.register(t, "a@x.com")
	rec := api.do(t, http.MethodGet, "/api/auth/me", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var u struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("email = %q", u.Email)
	}
}

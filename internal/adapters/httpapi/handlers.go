package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cityplay/activity-booking-api/internal/app/activities"
	"github.com/cityplay/activity-booking-api/internal/app/auth"
	"github.com/cityplay/activity-booking-api/internal/app/bookings"
	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/platform/logger"
)

// dateLayout is the wire format for activity calendar dates.
const dateLayout = "2006-01-02"

// Handlers holds the application services the HTTP layer delegates to.
type Handlers struct {
	auth       *auth.Service
	activities *activities.Service
	bookings   *bookings.Service
	log        *logger.Logger

	// dbConnected feeds the health endpoint; data routes are gated separately
	// by the availability middleware.
	dbConnected func() bool
}

func NewHandlers(authSvc *auth.Service, activitySvc *activities.Service, bookingSvc *bookings.Service, log *logger.Logger, dbConnected func() bool) *Handlers {
	return &Handlers{
		auth:        authSvc,
		activities:  activitySvc,
		bookings:    bookingSvc,
		log:         log,
		dbConnected: dbConnected,
	}
}

type userJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type activityJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"createdAt"`
}

type bookingJSON struct {
	ID          string       `json:"id"`
	User        string       `json:"user"`
	Activity    activityJSON `json:"activity"`
	BookingDate time.Time    `json:"bookingDate"`
}

func toUserJSON(u domain.User) userJSON {
	return userJSON{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func toActivityJSON(a domain.Activity) activityJSON {
	return activityJSON{
		ID:          string(a.ID),
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Date:        a.Date.Format(dateLayout),
		Time:        a.Time,
		CreatedAt:   a.CreatedAt,
	}
}

func toBookingJSON(b domain.BookedActivity) bookingJSON {
	return bookingJSON{
		ID:          string(b.ID),
		User:        string(b.UserID),
		Activity:    toActivityJSON(b.Activity),
		BookingDate: b.BookedAt,
	}
}

// Health reports liveness plus the store-connectivity flag. It is mounted
// outside both the auth and availability gates so operators can always reach
// it.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"dbConnected": h.dbConnected(),
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeToken(w, http.StatusCreated, sess.Token)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.auth.Login(r.Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeToken(w, http.StatusOK, sess.Token)
}

// Me returns the authenticated user's profile.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	writeData(w, http.StatusOK, toUserJSON(u))
}

func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	as, err := h.activities.List(r.Context())
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	out := make([]activityJSON, 0, len(as))
	for _, a := range as {
		out = append(out, toActivityJSON(a))
	}
	writeList(w, http.StatusOK, out, len(out))
}

func (h *Handlers) GetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := h.activities.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toActivityJSON(a))
}

type createActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := h.activities.Create(r.Context(), activities.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toActivityJSON(a))
}

// BookActivity books the activity named in the URL for the authenticated user.
func (h *Handlers) BookActivity(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	b, err := h.bookings.Create(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toBookingJSON(b))
}

type createBookingRequest struct {
	Activity string `json:"activity"`
}

// CreateBooking books the activity named in the request body. It exists
// alongside the URL-addressed form for clients that post to the collection.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := h.bookings.Create(r.Context(), u.ID, req.Activity)
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toBookingJSON(b))
}

// MyBookings lists the authenticated user's bookings with joined activity
// fields.
func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	bs, err := h.bookings.ListForUser(r.Context(), u.ID)
	if err != nil {
		writeAppError(w, h.log, err)
		return
	}
	out := make([]bookingJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingJSON(b))
	}
	writeList(w, http.StatusOK, out, len(out))
}

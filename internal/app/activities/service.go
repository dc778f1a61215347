package activities

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
	clockport "github.com/cityplay/activity-booking-api/internal/ports/out/clock"
)

const maxTitleLen = 100

// CreateInput carries the fields of an activity-creation request.
// Date is the raw string as received; parsing is part of validation.
type CreateInput struct {
	Title       string
	Description string
	Location    string
	Date        string
	Time        string
}

// Service implements the activity catalog.
type Service struct {
	repo activityrepo.Repository
	clk  clockport.Clock

	newActivityID func() domain.ActivityID
}

func NewService(repo activityrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newActivityID: func() domain.ActivityID {
			return domain.ActivityID(uuid.NewString())
		},
	}
}

// SetNewActivityIDForTest overrides activity ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewActivityIDForTest(fn func() domain.ActivityID) {
	if fn != nil {
		s.newActivityID = fn
	}
}

// List returns all activities. Unpaginated at current scale.
func (s *Service) List(ctx context.Context) ([]domain.Activity, error) {
	as, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(as))
	for _, a := range as {
		out = append(out, toDomain(a))
	}
	return out, nil
}

// GetByID returns a single activity. A malformed identifier fails before any
// store lookup.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Activity, error) {
	if !domain.ValidID(id) {
		return domain.Activity{}, &Error{Status: 400, Code: "INVALID_ID", Message: "invalid activity id"}
	}
	a, err := s.repo.GetByID(ctx, domain.ActivityID(id))
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return domain.Activity{}, &Error{Status: 404, Code: "ACTIVITY_NOT_FOUND", Message: "Activity not found"}
		}
		return domain.Activity{}, err
	}
	return toDomain(a), nil
}

// Create validates all five fields and persists a new activity.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Activity, error) {
	title := strings.TrimSpace(in.Title)

	fields := map[string]any{}
	switch {
	case title == "":
		fields["title"] = "Please add a title"
	case len([]rune(title)) > maxTitleLen:
		fields["title"] = "Title cannot be more than 100 characters"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "Please add a description"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "Please add a location"
	}
	if strings.TrimSpace(in.Time) == "" {
		fields["time"] = "Please add a time"
	}

	var date time.Time
	if strings.TrimSpace(in.Date) == "" {
		fields["date"] = "Please add a date"
	} else {
		var err error
		date, err = parseDate(strings.TrimSpace(in.Date))
		if err != nil {
			fields["date"] = "Date must be a calendar date such as 2024-06-01"
		}
	}

	if len(fields) > 0 {
		return domain.Activity{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid activity", Details: fields}
	}

	a := activityrepo.Activity{
		ID:          s.newActivityID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Date:        date,
		Time:        strings.TrimSpace(in.Time),
		CreatedAt:   s.clk.Now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return domain.Activity{}, err
	}
	return toDomain(a), nil
}

// parseDate accepts a plain calendar date or an RFC 3339 timestamp, and keeps
// the date portion at UTC midnight.
func parseDate(raw string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return d.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func toDomain(a activityrepo.Activity) domain.Activity {
	return domain.Activity{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Date:        a.Date,
		Time:        a.Time,
		CreatedAt:   a.CreatedAt,
	}
}

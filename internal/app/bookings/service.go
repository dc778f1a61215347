package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
	"github.com/cityplay/activity-booking-api/internal/ports/out/bookingrepo"
	clockport "github.com/cityplay/activity-booking-api/internal/ports/out/clock"
)

// Service implements the booking ledger.
type Service struct {
	bookings   bookingrepo.Repository
	activities activityrepo.Repository
	clk        clockport.Clock

	newBookingID func() domain.BookingID
}

func NewService(bookingsRepo bookingrepo.Repository, activitiesRepo activityrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		bookings:   bookingsRepo,
		activities: activitiesRepo,
		clk:        clk,
		newBookingID: func() domain.BookingID {
			return domain.BookingID(uuid.NewString())
		},
	}
}

// SetNewBookingIDForTest overrides booking ID generation for deterministic
// tests. It should not be used in production code.
func (s *Service) SetNewBookingIDForTest(fn func() domain.BookingID) {
	if fn != nil {
		s.newBookingID = fn
	}
}

// Create books an activity for a user. The one-booking-per-pair invariant is
// enforced by the store at write time; the activity-existence check before the
// insert only distinguishes 404 from a duplicate.
func (s *Service) Create(ctx context.Context, userID domain.UserID, activityID string) (domain.BookedActivity, error) {
	if !domain.ValidID(activityID) {
		return domain.BookedActivity{}, &Error{Status: 400, Code: "INVALID_ID", Message: "invalid activity id"}
	}

	act, err := s.activities.GetByID(ctx, domain.ActivityID(activityID))
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return domain.BookedActivity{}, &Error{Status: 404, Code: "ACTIVITY_NOT_FOUND", Message: "Activity not found"}
		}
		return domain.BookedActivity{}, err
	}

	b := bookingrepo.Booking{
		ID:         s.newBookingID(),
		UserID:     userID,
		ActivityID: act.ID,
		BookedAt:   s.clk.Now(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, bookingrepo.ErrAlreadyBooked) {
			return domain.BookedActivity{}, &Error{Status: 400, Code: "ALREADY_BOOKED", Message: "You have already booked this activity"}
		}
		return domain.BookedActivity{}, err
	}

	return joinActivity(b, act), nil
}

// ListForUser returns the user's bookings, each enriched with the referenced
// activity's display fields. The join is a read-time projection.
func (s *Service) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.BookedActivity, error) {
	bs, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BookedActivity, 0, len(bs))
	for _, b := range bs {
		act, err := s.activities.GetByID(ctx, b.ActivityID)
		if err != nil {
			// A booking referencing a vanished activity is a data defect;
			// surface it rather than silently dropping the row.
			return nil, err
		}
		out = append(out, joinActivity(b, act))
	}
	return out, nil
}

func joinActivity(b bookingrepo.Booking, a activityrepo.Activity) domain.BookedActivity {
	return domain.BookedActivity{
		Booking: domain.Booking{
			ID:         b.ID,
			UserID:     b.UserID,
			ActivityID: b.ActivityID,
			BookedAt:   b.BookedAt,
		},
		Activity: domain.Activity{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Location:    a.Location,
			Date:        a.Date,
			Time:        a.Time,
			CreatedAt:   a.CreatedAt,
		},
	}
}

package httpapi

import (
	"errors"
	"net/http"

	"github.com/cityplay/activity-booking-api/internal/app/activities"
	"github.com/cityplay/activity-booking-api/internal/app/auth"
	"github.com/cityplay/activity-booking-api/internal/app/bookings"
	"github.com/cityplay/activity-booking-api/internal/platform/logger"
)

// writeAppError maps an application-layer error to an HTTP response.
// Unrecognized errors become an opaque 500; the detail goes to the log, never
// to the client.
func writeAppError(w http.ResponseWriter, log *logger.Logger, err error) {
	var (
		authErr     *auth.Error
		activityErr *activities.Error
		bookingErr  *bookings.Error
	)
	switch {
	case errors.As(err, &authErr):
		writeFieldErrors(w, authErr.Status, authErr.Message, authErr.Details)
	case errors.As(err, &activityErr):
		writeFieldErrors(w, activityErr.Status, activityErr.Message, activityErr.Details)
	case errors.As(err, &bookingErr):
		writeFieldErrors(w, bookingErr.Status, bookingErr.Message, bookingErr.Details)
	default:
		log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
	}
}

package domain

import "time"

// Activity is a bookable event in the catalog. Activities are immutable once
// created.
type Activity struct {
	ID          ActivityID
	Title       string
	Description string
	Location    string
	// Date is the calendar date of the activity (UTC midnight).
	Date time.Time
	// Time is a free-form display string (e.g. "09:00 AM").
	Time string

	CreatedAt time.Time
}

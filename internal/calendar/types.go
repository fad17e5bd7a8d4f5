package calendar

import (
	"fmt"
	"time"
)

// Event is a Canvas calendar event. The ID is assigned by the server on
// creation and is the only handle for later deletion.
type Event struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"` // HTML
	ContextCode   string    `json:"context_code"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	WorkflowState string    `json:"workflow_state"`
	URL           string    `json:"url"`
}

// EventInput describes a calendar event to create. Date and times are kept
// as strings because that is how course calendars are authored (a date plus
// wall-clock start and end); CreateEvent combines them into ISO8601
// timestamps.
type EventInput struct {
	Title       string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	Description string // HTML
}

// timestamps builds the start_at/end_at values sent to Canvas,
// e.g. "2025-04-01" + "10:00" -> "2025-04-01T10:00:00Z".
func (in EventInput) timestamps() (string, string, error) {
	startAt := fmt.Sprintf("%sT%s:00Z", in.Date, in.StartTime)
	endAt := fmt.Sprintf("%sT%s:00Z", in.Date, in.EndTime)

	if _, err := time.Parse(time.RFC3339, startAt); err != nil {
		return "", "", fmt.Errorf("invalid date/start time %q %q: %w", in.Date, in.StartTime, err)
	}
	if _, err := time.Parse(time.RFC3339, endAt); err != nil {
		return "", "", fmt.Errorf("invalid date/end time %q %q: %w", in.Date, in.EndTime, err)
	}
	return startAt, endAt, nil
}

// eventPayload is the wire shape Canvas expects for create requests.
type eventPayload struct {
	CalendarEvent eventFields `json:"calendar_event"`
}

type eventFields struct {
	ContextCode string `json:"context_code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
}

// ClearFailure records one event that could not be deleted during a bulk
// clear.
type ClearFailure struct {
	EventID int64
	Title   string
	Err     error
}

// ClearResult summarizes a bulk delete: how many events were deleted, how
// many were skipped because the server already considered them deleted, and
// which deletions failed.
type ClearResult struct {
	Deleted  int
	Skipped  int
	Failures []ClearFailure
}

// SyncEntry is one event in a course calendar JSON file, matching the
// format used to author weekly course plans:
//
//	[{"title": "...", "date": "2025-01-06", "time": "10:00",
//	  "etime": "11:00", "description": "<p>...</p>"}]
type SyncEntry struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ETime       string `json:"etime"`
	Description string `json:"description"`
}

package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/config"
	"github.com/hicanvas/canvasctl/internal/logging"
)

// ErrAlreadyDeleted is returned by DeleteEvent when Canvas reports the
// event's workflow state as already deleted. Bulk operations treat it as a
// skip rather than a failure.
var ErrAlreadyDeleted = errors.New("calendar event is already deleted")

// ClearRecorder counts per-item failures during bulk deletes. The
// instrumentation package provides the production implementation.
type ClearRecorder interface {
	RecordClearFailure(ctx context.Context)
}

// Client provides calendar event operations for a single course.
type Client struct {
	api *canvas.Client

	// start/end bound the course's date window; DeleteAllEvents only
	// touches events inside it.
	start, end time.Time

	metrics ClearRecorder
}

// Option configures a calendar Client.
type Option func(*Client)

// WithClearRecorder sets the recorder for bulk-delete failures.
func WithClearRecorder(m ClearRecorder) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a calendar client scoped to the course and date window
// of the given configuration.
func NewClient(api *canvas.Client, cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		api:   api,
		start: cfg.StartDate,
		end:   cfg.EndDate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateEvent creates a calendar event for the course and returns the
// created record, including its server-assigned ID.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	startAt, endAt, err := in.timestamps()
	if err != nil {
		return nil, err
	}

	payload := eventPayload{
		CalendarEvent: eventFields{
			ContextCode: c.api.ContextCode(),
			Title:       in.Title,
			Description: in.Description,
			StartAt:     startAt,
			EndAt:       endAt,
		},
	}

	var event Event
	if _, err := c.api.Do(ctx, http.MethodPost, "calendar_events", nil, payload, &event); err != nil {
		return nil, fmt.Errorf("failed to create event %q: %w", in.Title, err)
	}

	c.api.Logger().Info("calendar event created",
		logging.Service("calendar"),
		logging.Operation("create_event"),
		logging.EventID(event.ID),
		logging.Status(logging.StatusSuccess),
	)

	return &event, nil
}

// ListEvents returns all calendar events for the course between start and
// end (inclusive), walking every page of results.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	query := url.Values{}
	query.Add("context_codes[]", c.api.ContextCode())
	query.Set("type", "event")
	query.Set("per_page", canvas.DefaultPerPage)
	query.Set("start_date", start.Format(config.DateLayout))
	query.Set("end_date", end.Format(config.DateLayout))

	pager := c.api.NewPager("calendar_events", query)

	var events []Event
	for {
		var page []Event
		more, err := pager.Next(ctx, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		if !more {
			break
		}
		events = append(events, page...)
	}

	return events, nil
}

// DeleteEvent deletes a single calendar event by ID. A 204 response means
// the event was deleted; a 200 response whose body reports workflow state
// "deleted" means it was gone already, which surfaces as ErrAlreadyDeleted.
// A 200 response with any other workflow state means the event survived the
// delete and is reported as an error.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	var event Event
	status, err := c.api.Do(ctx, http.MethodDelete, fmt.Sprintf("calendar_events/%d", id), nil, nil, &event)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}

	switch status {
	case http.StatusNoContent:
		return nil
	case http.StatusOK:
		if event.WorkflowState == "deleted" {
			return ErrAlreadyDeleted
		}
		return fmt.Errorf("failed to delete event %d: unexpected workflow state %q", id, event.WorkflowState)
	default:
		return fmt.Errorf("failed to delete event %d: unexpected status %d", id, status)
	}
}

// DeleteAllEvents deletes every event of the course inside the configured
// date window. Individual failures are recorded and logged but never stop
// the remaining deletions; they come back both in the ClearResult and as a
// joined error so callers can tell a clean run from a partial one.
func (c *Client) DeleteAllEvents(ctx context.Context) (*ClearResult, error) {
	events, err := c.ListEvents(ctx, c.start, c.end)
	if err != nil {
		return nil, err
	}

	logger := logging.WithService(c.api.Logger(), "calendar")
	result := &ClearResult{}
	var errs []error

	for _, event := range events {
		if event.WorkflowState == "deleted" {
			logger.Warn("skipping event, already deleted", logging.EventID(event.ID))
			result.Skipped++
			continue
		}

		switch err := c.DeleteEvent(ctx, event.ID); {
		case err == nil:
			logger.Info("event deleted", logging.EventID(event.ID))
			result.Deleted++
		case errors.Is(err, ErrAlreadyDeleted):
			logger.Warn("skipping event, already deleted", logging.EventID(event.ID))
			result.Skipped++
		default:
			logger.Error("failed to delete event", logging.EventID(event.ID), logging.Err(err))
			result.Failures = append(result.Failures, ClearFailure{
				EventID: event.ID,
				Title:   event.Title,
				Err:     err,
			})
			errs = append(errs, err)
			if c.metrics != nil {
				c.metrics.RecordClearFailure(ctx)
			}
		}
	}

	return result, errors.Join(errs...)
}

// SyncEvents replaces the course calendar with the given entries: it clears
// the configured date window and recreates one event per entry. Used by the
// CLI to push a course plan authored as a JSON file.
func (c *Client) SyncEvents(ctx context.Context, entries []SyncEntry) error {
	logger := logging.WithService(c.api.Logger(), "calendar")

	logger.Info("deleting existing calendar events")
	if _, err := c.DeleteAllEvents(ctx); err != nil {
		return fmt.Errorf("failed to clear calendar before sync: %w", err)
	}

	for i, entry := range entries {
		logger.Info("creating calendar event",
			logging.Operation("sync"),
			slog.Int("week", i+1),
			slog.String("title", entry.Title),
		)
		_, err := c.CreateEvent(ctx, EventInput{
			Title:       entry.Title,
			Date:        entry.Date,
			StartTime:   entry.Time,
			EndTime:     entry.ETime,
			Description: entry.Description,
		})
		if err != nil {
			return fmt.Errorf("failed to create event %d (%q): %w", i+1, entry.Title, err)
		}
	}

	logger.Info("calendar updated", logging.Status(logging.StatusSuccess))
	return nil
}

// LoadSyncFile reads a course calendar JSON file into sync entries.
func LoadSyncFile(path string) ([]SyncEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	var entries []SyncEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file %s: %w", path, err)
	}
	return entries, nil
}

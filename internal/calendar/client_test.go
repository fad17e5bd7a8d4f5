package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/config"
)

// fakeCanvas is an in-memory calendar_events endpoint with Canvas-style
// pagination, used to exercise the client end to end.
type fakeCanvas struct {
	events  map[int64]*storedEvent
	nextID  int64
	perPage int

	// failDelete lists event IDs whose DELETE responds with a 500.
	failDelete map[int64]bool

	// deleteState overrides DELETE for an event ID: the fake answers 200
	// with the given workflow_state instead of deleting the event.
	deleteState map[int64]string
}

type storedEvent struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ContextCode   string `json:"context_code"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	WorkflowState string `json:"workflow_state"`
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{
		events:      make(map[int64]*storedEvent),
		nextID:      1,
		perPage:     2,
		failDelete:  make(map[int64]bool),
		deleteState: make(map[int64]string),
	}
}

func (f *fakeCanvas) add(title, date, start, end string) int64 {
	id := f.nextID
	f.nextID++
	f.events[id] = &storedEvent{
		ID:            id,
		Title:         title,
		ContextCode:   "course_1234",
		StartAt:       fmt.Sprintf("%sT%s:00Z", date, start),
		EndAt:         fmt.Sprintf("%sT%s:00Z", date, end),
		WorkflowState: "active",
	}
	return id
}

func (f *fakeCanvas) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/calendar_events":
		f.handleCreate(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/calendar_events":
		f.handleList(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/v1/calendar_events/"):
		f.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCanvas) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CalendarEvent storedEvent `json:"calendar_event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	event := payload.CalendarEvent
	event.ID = f.nextID
	f.nextID++
	event.WorkflowState = "active"
	f.events[event.ID] = &event

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

func (f *fakeCanvas) handleList(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	var matches []*storedEvent
	for _, event := range f.events {
		date := strings.SplitN(event.StartAt, "T", 2)[0]
		if startDate != "" && date < startDate {
			continue
		}
		if endDate != "" && date > endDate {
			continue
		}
		matches = append(matches, event)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		page, _ = strconv.Atoi(p)
	}
	start := (page - 1) * f.perPage
	end := start + f.perPage
	if start > len(matches) {
		start = len(matches)
	}
	if end > len(matches) {
		end = len(matches)
	}

	if end < len(matches) {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page+1))
		next := fmt.Sprintf("http://%s%s?%s", r.Host, r.URL.Path, q.Encode())
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
	}

	w.Header().Set("Content-Type", "application/json")
	if matches == nil {
		matches = []*storedEvent{}
	}
	json.NewEncoder(w).Encode(matches[start:end])
}

func (f *fakeCanvas) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/v1/calendar_events/"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	if f.failDelete[id] {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	event, ok := f.events[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if state, ok := f.deleteState[id]; ok {
		event.WorkflowState = state
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(event)
		return
	}

	if event.WorkflowState == "deleted" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(event)
		return
	}

	event.WorkflowState = "deleted"
	delete(f.events, id)
	w.WriteHeader(http.StatusNoContent)
}

func newTestClient(t *testing.T, fake *fakeCanvas) *Client {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		InstitutionURL: srv.URL,
		APIVersion:     "v1",
		APIToken:       "test-token",
		CourseID:       "1234",
		StartDate:      mustDate(t, "2025-01-06"),
		EndDate:        mustDate(t, "2025-04-25"),
	}
	return NewClient(canvas.New(cfg), cfg)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(config.DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestCreateEvent(t *testing.T) {
	fake := newFakeCanvas()
	client := newTestClient(t, fake)

	event, err := client.CreateEvent(context.Background(), EventInput{
		Title:       "Midterm",
		Date:        "2025-04-01",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Description: "<p>Room HB-2</p>",
	})
	require.NoError(t, err)

	assert.NotZero(t, event.ID, "server assigns the ID")
	assert.Equal(t, "Midterm", event.Title)
	assert.Equal(t, "course_1234", event.ContextCode)
	assert.Equal(t, "2025-04-01T10:00:00Z", event.StartAt.Format(time.RFC3339))
	assert.Equal(t, "2025-04-01T11:00:00Z", event.EndAt.Format(time.RFC3339))
}

func TestCreateEvent_InvalidTime(t *testing.T) {
	client := newTestClient(t, newFakeCanvas())

	_, err := client.CreateEvent(context.Background(), EventInput{
		Title:     "Broken",
		Date:      "2025-04-01",
		StartTime: "25:99",
		EndTime:   "11:00",
	})
	assert.Error(t, err)
}

func TestCreateEvent_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"message":"forbidden"}]}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		InstitutionURL: srv.URL,
		APIVersion:     "v1",
		APIToken:       "test-token",
		CourseID:       "1234",
	}
	client := NewClient(canvas.New(cfg), cfg)

	_, err := client.CreateEvent(context.Background(), EventInput{
		Title:     "Midterm",
		Date:      "2025-04-01",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.Error(t, err)

	assert.True(t, canvas.IsStatus(err, http.StatusForbidden), "status and body propagate")
	assert.Contains(t, err.Error(), "forbidden")
}

func TestCreateThenList(t *testing.T) {
	client := newTestClient(t, newFakeCanvas())
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, EventInput{
		Title:       "Midterm",
		Date:        "2025-04-01",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Description: "<p>Chapters 1-5</p>",
	})
	require.NoError(t, err)

	day := mustDate(t, "2025-04-01")
	events, err := client.ListEvents(ctx, day, day)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].ID)
	assert.Equal(t, "Midterm", events[0].Title)
	assert.Equal(t, "<p>Chapters 1-5</p>", events[0].Description)
}

func TestListEvents_Pagination(t *testing.T) {
	fake := newFakeCanvas()
	var want []int64
	for week := 0; week < 5; week++ {
		date := fmt.Sprintf("2025-02-%02d", 3+week)
		want = append(want, fake.add(fmt.Sprintf("Week %d", week+1), date, "10:00", "11:40"))
	}
	client := newTestClient(t, fake)

	events, err := client.ListEvents(context.Background(), mustDate(t, "2025-01-06"), mustDate(t, "2025-04-25"))
	require.NoError(t, err)

	var got []int64
	for _, event := range events {
		got = append(got, event.ID)
	}
	assert.Equal(t, want, got, "all pages, no duplicates, no drops")
}

func TestListEvents_DateWindow(t *testing.T) {
	fake := newFakeCanvas()
	fake.add("Inside", "2025-02-10", "10:00", "11:00")
	fake.add("Outside", "2025-06-01", "10:00", "11:00")
	client := newTestClient(t, fake)

	events, err := client.ListEvents(context.Background(), mustDate(t, "2025-01-06"), mustDate(t, "2025-04-25"))
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "Inside", events[0].Title)
}

func TestDeleteEvent_AlreadyDeleted(t *testing.T) {
	fake := newFakeCanvas()
	id := fake.add("Old", "2025-02-10", "10:00", "11:00")
	fake.events[id].WorkflowState = "deleted"
	client := newTestClient(t, fake)

	err := client.DeleteEvent(context.Background(), id)
	assert.ErrorIs(t, err, ErrAlreadyDeleted)
}

func TestDeleteEvent_UnexpectedWorkflowState(t *testing.T) {
	fake := newFakeCanvas()
	id := fake.add("Held", "2025-02-10", "10:00", "11:00")
	fake.deleteState[id] = "locked"
	client := newTestClient(t, fake)

	err := client.DeleteEvent(context.Background(), id)
	require.Error(t, err, "a 200 with a live workflow state means the event survived")
	assert.NotErrorIs(t, err, ErrAlreadyDeleted)
	assert.Contains(t, err.Error(), `workflow state "locked"`)
}

func TestDeleteAllEvents_ThenListEmpty(t *testing.T) {
	fake := newFakeCanvas()
	for week := 0; week < 5; week++ {
		fake.add(fmt.Sprintf("Week %d", week+1), fmt.Sprintf("2025-02-%02d", 3+week), "10:00", "11:40")
	}
	client := newTestClient(t, fake)
	ctx := context.Background()

	result, err := client.DeleteAllEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Deleted)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Failures)

	events, err := client.ListEvents(ctx, mustDate(t, "2025-01-06"), mustDate(t, "2025-04-25"))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDeleteAllEvents_ContinuesPastFailures(t *testing.T) {
	fake := newFakeCanvas()
	fake.add("Week 1", "2025-02-03", "10:00", "11:40")
	stuck := fake.add("Week 2", "2025-02-10", "10:00", "11:40")
	fake.add("Week 3", "2025-02-17", "10:00", "11:40")
	fake.failDelete[stuck] = true
	client := newTestClient(t, fake)
	ctx := context.Background()

	result, err := client.DeleteAllEvents(ctx)
	require.Error(t, err, "partial failure is reported")

	assert.Equal(t, 2, result.Deleted, "deletions after the failure still ran")
	require.Len(t, result.Failures, 1)
	assert.Equal(t, stuck, result.Failures[0].EventID)
	assert.Equal(t, "Week 2", result.Failures[0].Title)
	assert.True(t, canvas.IsStatus(result.Failures[0].Err, http.StatusInternalServerError))

	// Only the stuck event remains.
	events, err := client.ListEvents(ctx, mustDate(t, "2025-01-06"), mustDate(t, "2025-04-25"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, stuck, events[0].ID)
}

func TestDeleteAllEvents_SkipsAlreadyDeleted(t *testing.T) {
	fake := newFakeCanvas()
	fake.add("Live", "2025-02-03", "10:00", "11:40")
	gone := fake.add("Gone", "2025-02-10", "10:00", "11:40")
	fake.events[gone].WorkflowState = "deleted"
	client := newTestClient(t, fake)

	result, err := client.DeleteAllEvents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Failures)
}

func TestSyncEvents(t *testing.T) {
	fake := newFakeCanvas()
	fake.add("Stale week", "2025-02-03", "10:00", "11:40")
	client := newTestClient(t, fake)
	ctx := context.Background()

	entries := []SyncEntry{
		{Title: "Week 1: Intro", Date: "2025-01-06", Time: "10:00", ETime: "11:40", Description: "<p>Syllabus</p>"},
		{Title: "Week 2: HTTP", Date: "2025-01-13", Time: "10:00", ETime: "11:40", Description: "<p>REST</p>"},
	}
	require.NoError(t, client.SyncEvents(ctx, entries))

	events, err := client.ListEvents(ctx, mustDate(t, "2025-01-06"), mustDate(t, "2025-04-25"))
	require.NoError(t, err)

	require.Len(t, events, 2, "stale events replaced by the synced plan")
	assert.Equal(t, "Week 1: Intro", events[0].Title)
	assert.Equal(t, "Week 2: HTTP", events[1].Title)
}

func TestLoadSyncFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.json")
	content := `[{"title": "Week 1", "date": "2025-01-06", "time": "10:00", "etime": "11:40", "description": "<p>Intro</p>"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := LoadSyncFile(path)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "Week 1", entries[0].Title)
	assert.Equal(t, "11:40", entries[0].ETime)
}

func TestLoadSyncFile_Missing(t *testing.T) {
	_, err := LoadSyncFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

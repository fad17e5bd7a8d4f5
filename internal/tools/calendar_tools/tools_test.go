package calendar_tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hicanvas/canvasctl/internal/calendar"
	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/config"
)

func newTestDeps(t *testing.T, handler http.Handler) Deps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		InstitutionURL: srv.URL,
		APIVersion:     "v1",
		APIToken:       "test-token",
		CourseID:       "1234",
		StartDate:      time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	return Deps{
		Calendar: calendar.NewClient(canvas.New(cfg), cfg),
		Start:    cfg.StartDate,
		End:      cfg.EndDate,
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	deps := newTestDeps(t, http.NotFoundHandler())
	s := mcpserver.NewMCPServer("test", "1.0.0")

	if err := RegisterCalendarTools(s, deps, false); err != nil {
		t.Fatalf("RegisterCalendarTools() error = %v", err)
	}
}

func TestRegisterCalendarTools_RequiresClient(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0")

	if err := RegisterCalendarTools(s, Deps{}, false); err == nil {
		t.Error("expected error for missing calendar client")
	}
}

func TestParseDateArg(t *testing.T) {
	def := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		args      map[string]interface{}
		want      time.Time
		expectErr bool
	}{
		{
			name: "missing falls back to default",
			args: map[string]interface{}{},
			want: def,
		},
		{
			name: "empty falls back to default",
			args: map[string]interface{}{"startDate": ""},
			want: def,
		},
		{
			name: "valid date",
			args: map[string]interface{}{"startDate": "2025-03-15"},
			want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "invalid date",
			args:      map[string]interface{}{"startDate": "15.03.2025"},
			expectErr: true,
		},
		{
			name: "wrong type falls back to default",
			args: map[string]interface{}{"startDate": 42},
			want: def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateArg(tt.args, "startDate", def)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDateArg() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDateArg() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleCreateEvent(t *testing.T) {
	deps := newTestDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "title": "Midterm"}`))
	}))

	result, err := handleCreateEvent(context.Background(), callRequest(map[string]interface{}{
		"title":     "Midterm",
		"date":      "2025-04-01",
		"startTime": "10:00",
		"endTime":   "11:00",
	}), deps)
	if err != nil {
		t.Fatalf("handleCreateEvent() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !containsString(text, "ID 42") {
		t.Errorf("expected created event ID in result, got %q", text)
	}
}

func TestHandleCreateEvent_MissingTitle(t *testing.T) {
	deps := newTestDeps(t, http.NotFoundHandler())

	result, err := handleCreateEvent(context.Background(), callRequest(map[string]interface{}{
		"date":      "2025-04-01",
		"startTime": "10:00",
		"endTime":   "11:00",
	}), deps)
	if err != nil {
		t.Fatalf("handleCreateEvent() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing title")
	}
}

func TestHandleListEvents_Empty(t *testing.T) {
	deps := newTestDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))

	result, err := handleListEvents(context.Background(), callRequest(nil), deps)
	if err != nil {
		t.Fatalf("handleListEvents() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if !containsString(resultText(t, result), "No events") {
		t.Errorf("expected empty-range message, got %q", resultText(t, result))
	}
}

func TestHandleDeleteEvent_InvalidID(t *testing.T) {
	deps := newTestDeps(t, http.NotFoundHandler())

	result, err := handleDeleteEvent(context.Background(), callRequest(map[string]interface{}{
		"eventId": "not-a-number",
	}), deps)
	if err != nil {
		t.Fatalf("handleDeleteEvent() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for invalid eventId")
	}
}

func containsString(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

package calendar_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hicanvas/canvasctl/internal/calendar"
	"github.com/hicanvas/canvasctl/internal/config"
	"github.com/hicanvas/canvasctl/internal/instrumentation"
)

// Deps carries everything the calendar tools need: the course-scoped
// calendar client, the course date window used as the default list range,
// and an optional metrics recorder.
type Deps struct {
	Calendar *calendar.Client
	Start    time.Time
	End      time.Time
	Metrics  *instrumentation.Metrics
}

// RegisterCalendarTools registers all calendar-related tools with the MCP
// server. Mutating tools are left out in read-only mode.
func RegisterCalendarTools(s *mcpserver.MCPServer, deps Deps, readOnly bool) error {
	if deps.Calendar == nil {
		return fmt.Errorf("calendar client is required")
	}

	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List calendar events of the course within a date range"),
		mcp.WithString("startDate",
			mcp.Description("Start of the range (YYYY-MM-DD). Defaults to the course start date."),
		),
		mcp.WithString("endDate",
			mcp.Description("End of the range (YYYY-MM-DD). Defaults to the course end date."),
		),
	)

	s.AddTool(listEventsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, request, deps)
	})

	if readOnly {
		return nil
	}

	// Create event tool
	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a calendar event for the course"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Event date (YYYY-MM-DD)"),
		),
		mcp.WithString("startTime",
			mcp.Required(),
			mcp.Description("Start time (HH:MM, 24-hour)"),
		),
		mcp.WithString("endTime",
			mcp.Required(),
			mcp.Description("End time (HH:MM, 24-hour)"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
	)

	s.AddTool(createEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateEvent(ctx, request, deps)
	})

	// Delete event tool
	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete a single calendar event by ID"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)

	s.AddTool(deleteEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteEvent(ctx, request, deps)
	})

	// Clear tool
	clearTool := mcp.NewTool("calendar_clear",
		mcp.WithDescription("Delete all calendar events of the course within its configured date window"),
	)

	s.AddTool(clearTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleClear(ctx, request, deps)
	})

	return nil
}

// recordTool records one tool invocation when a metrics recorder is wired.
func recordTool(ctx context.Context, deps Deps, tool string, err error, started time.Time) {
	if deps.Metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	deps.Metrics.RecordToolInvocation(ctx, tool, status, time.Since(started))
}

// parseDateArg parses an optional YYYY-MM-DD argument, falling back to def.
func parseDateArg(args map[string]interface{}, key string, def time.Time) (time.Time, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return def, nil
	}
	parsed, err := time.Parse(config.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", key, value)
	}
	return parsed, nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	started := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "calendar_list_events")
	defer span.End()

	args := request.GetArguments()

	start, err := parseDateArg(args, "startDate", deps.Start)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := parseDateArg(args, "endDate", deps.End)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := deps.Calendar.ListEvents(ctx, start, end)
	recordTool(ctx, deps, "calendar_list_events", err, started)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}
	instrumentation.SetSpanSuccess(span)

	if len(events) == 0 {
		return mcp.NewToolResultText("No events found in the given range."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d event(s):\n", len(events))
	for _, event := range events {
		fmt.Fprintf(&sb, "- [%d] %s: %s - %s",
			event.ID, event.Title,
			event.StartAt.Format(time.RFC3339), event.EndAt.Format(time.RFC3339))
		if event.WorkflowState != "" {
			fmt.Fprintf(&sb, " (%s)", event.WorkflowState)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	started := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "calendar_create_event")
	defer span.End()

	args := request.GetArguments()

	input := calendar.EventInput{}
	var ok bool
	if input.Title, ok = args["title"].(string); !ok || input.Title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	if input.Date, ok = args["date"].(string); !ok || input.Date == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	if input.StartTime, ok = args["startTime"].(string); !ok || input.StartTime == "" {
		return mcp.NewToolResultError("startTime is required"), nil
	}
	if input.EndTime, ok = args["endTime"].(string); !ok || input.EndTime == "" {
		return mcp.NewToolResultError("endTime is required"), nil
	}
	if desc, ok := args["description"].(string); ok {
		input.Description = desc
	}

	event, err := deps.Calendar.CreateEvent(ctx, input)
	recordTool(ctx, deps, "calendar_create_event", err, started)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}
	instrumentation.SetSpanSuccess(span)

	return mcp.NewToolResultText(fmt.Sprintf("Event created with ID %d: %s", event.ID, event.Title)), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	started := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "calendar_delete_event")
	defer span.End()

	args := request.GetArguments()

	idStr, ok := args["eventId"].(string)
	if !ok || idStr == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}
	var id int64
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid eventId %q", idStr)), nil
	}

	err := deps.Calendar.DeleteEvent(ctx, id)
	if errors.Is(err, calendar.ErrAlreadyDeleted) {
		recordTool(ctx, deps, "calendar_delete_event", nil, started)
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(fmt.Sprintf("Event %d was already deleted.", id)), nil
	}
	recordTool(ctx, deps, "calendar_delete_event", err, started)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}
	instrumentation.SetSpanSuccess(span)

	return mcp.NewToolResultText(fmt.Sprintf("Event %d deleted.", id)), nil
}

func handleClear(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	started := time.Now()
	ctx, span := instrumentation.StartToolSpan(ctx, "calendar_clear")
	defer span.End()

	result, err := deps.Calendar.DeleteAllEvents(ctx)
	recordTool(ctx, deps, "calendar_clear", err, started)
	if result == nil {
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to clear calendar: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Deleted %d event(s), skipped %d already-deleted event(s).\n", result.Deleted, result.Skipped)
	for _, failure := range result.Failures {
		fmt.Fprintf(&sb, "Failed to delete [%d] %s: %v\n", failure.EventID, failure.Title, failure.Err)
	}

	if err != nil {
		instrumentation.SetSpanError(span, err)
		return mcp.NewToolResultError(sb.String()), nil
	}
	instrumentation.SetSpanSuccess(span)

	return mcp.NewToolResultText(sb.String()), nil
}

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrService   = "service"
	attrOperation = "operation"
	attrStatus    = "status"
	attrTool      = "tool"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder, so callers never need nil checks.
type Metrics struct {
	// Canvas API metrics
	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram
	pagesFetchedTotal    metric.Int64Counter

	// Calendar bulk-delete metrics
	clearFailuresTotal metric.Int64Counter

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.apiOperationsTotal, err = meter.Int64Counter(
		"canvas_api_operations_total",
		metric.WithDescription("Total number of Canvas API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas_api_operations_total counter: %w", err)
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"canvas_api_operation_duration_seconds",
		metric.WithDescription("Canvas API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas_api_operation_duration_seconds histogram: %w", err)
	}

	m.pagesFetchedTotal, err = meter.Int64Counter(
		"canvas_api_pages_fetched_total",
		metric.WithDescription("Total number of result pages fetched while walking paginated collections"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas_api_pages_fetched_total counter: %w", err)
	}

	m.clearFailuresTotal, err = meter.Int64Counter(
		"calendar_clear_failures_total",
		metric.WithDescription("Total number of events that failed to delete during a calendar clear"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_clear_failures_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordAPIOperation records a Canvas API operation. It satisfies the
// canvas.MetricsRecorder interface.
//
// Parameters:
//   - service: Canvas resource name (calendar_events, users, assignments, ...)
//   - operation: HTTP method in lower case (get, post, put, delete)
//   - err: the operation's error, nil on success
//   - duration: time taken for the round trip
func (m *Metrics) RecordAPIOperation(ctx context.Context, service, operation string, err error, duration time.Duration) {
	if m.apiOperationsTotal == nil || m.apiOperationDuration == nil {
		return // Instrumentation not initialized
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.apiOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordPageFetch counts one page fetched while walking a paginated
// collection. It satisfies the canvas.MetricsRecorder interface.
func (m *Metrics) RecordPageFetch(ctx context.Context, service string) {
	if m.pagesFetchedTotal == nil {
		return // Instrumentation not initialized
	}

	m.pagesFetchedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrService, service)))
}

// RecordClearFailure counts one event that could not be deleted during a
// calendar clear. It satisfies the calendar.ClearRecorder interface.
func (m *Metrics) RecordClearFailure(ctx context.Context) {
	if m.clearFailuresTotal == nil {
		return // Instrumentation not initialized
	}

	m.clearFailuresTotal.Add(ctx, 1)
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

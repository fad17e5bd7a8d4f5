// Package instrumentation provides OpenTelemetry instrumentation for the
// canvasctl MCP server and CLI.
//
// This package enables observability through:
//   - OpenTelemetry metrics for Canvas API calls and MCP tool invocations
//   - Distributed tracing for request flows and API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Canvas API Metrics:
//   - canvas_api_operations_total: Counter of Canvas API operations by service, operation, status
//   - canvas_api_operation_duration_seconds: Histogram of Canvas API operation durations
//   - canvas_api_pages_fetched_total: Counter of pages fetched while walking paginated collections
//
// Calendar Metrics:
//   - calendar_clear_failures_total: Counter of events that failed to delete during a clear
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Canvas API calls (canvas.<service>.<operation>)
//
// # Configuration
//
// Instrumentation is configured through environment variables:
//   - INSTRUMENTATION_ENABLED: enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP collector endpoint
//   - OTEL_TRACES_SAMPLER_ARG: trace sampling rate 0.0-1.0 (default: 0.1)
package instrumentation

package instrumentation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	return provider
}

func TestMetrics_RecordAPIOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordAPIOperation(ctx, "calendar_events", "get", nil, 200*time.Millisecond)
	metrics.RecordAPIOperation(ctx, "calendar_events", "post", errors.New("boom"), 500*time.Millisecond)
	metrics.RecordAPIOperation(ctx, "users", "get", nil, 100*time.Millisecond)
}

func TestMetrics_RecordPageFetch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)
	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordPageFetch(ctx, "calendar_events")
	metrics.RecordPageFetch(ctx, "users")
}

func TestMetrics_RecordClearFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)
	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordClearFailure(ctx)
	metrics.RecordClearFailure(ctx)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)
	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "calendar_create_event", StatusError, 500*time.Millisecond)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}

	// All these should not panic even with nil underlying metrics
	metrics.RecordAPIOperation(ctx, "calendar_events", "get", nil, 100*time.Millisecond)
	metrics.RecordPageFetch(ctx, "calendar_events")
	metrics.RecordClearFailure(ctx)
	metrics.RecordToolInvocation(ctx, "test_tool", StatusSuccess, 100*time.Millisecond)
}

func TestProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}

	if provider.PrometheusHandler() != nil {
		t.Error("expected no prometheus handler when disabled")
	}

	// Tracer falls back to a noop implementation
	tracer := provider.Tracer("test")
	if tracer == nil {
		t.Error("expected a tracer even when disabled")
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("shutdown of disabled provider should not fail: %v", err)
	}
}

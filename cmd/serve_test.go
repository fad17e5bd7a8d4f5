package cmd

import (
	"testing"

	"github.com/hicanvas/canvasctl/internal/server"
)

func TestResolveMetricsConfig_FlagValuesWin(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("METRICS_ADDR", ":9999")

	got := resolveMetricsConfig(MetricsConfig{Enabled: true, Addr: ":7070"})

	if !got.Enabled {
		t.Error("expected Enabled to stay true when set via flag")
	}
	if got.Addr != ":7070" {
		t.Errorf("expected Addr ':7070', got %q", got.Addr)
	}
}

func TestResolveMetricsConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_ADDR", ":9999")

	got := resolveMetricsConfig(MetricsConfig{Enabled: false, Addr: server.DefaultMetricsAddr})

	if !got.Enabled {
		t.Error("expected METRICS_ENABLED=true to enable metrics")
	}
	if got.Addr != ":9999" {
		t.Errorf("expected Addr ':9999', got %q", got.Addr)
	}
}

func TestResolveMetricsConfig_NoEnv(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	t.Setenv("METRICS_ADDR", "")

	got := resolveMetricsConfig(MetricsConfig{Addr: server.DefaultMetricsAddr})

	if got.Enabled {
		t.Error("expected metrics to stay disabled")
	}
	if got.Addr != server.DefaultMetricsAddr {
		t.Errorf("expected default addr, got %q", got.Addr)
	}
}

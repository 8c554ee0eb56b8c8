package exporters

import (
	"context"
	"testing"
)

func clearOTLPEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
}

func TestNewTracingExporter_None(t *testing.T) {
	for _, name := range []string{"none", ""} {
		exp, err := NewTracingExporter(context.Background(), name)
		if err != nil {
			t.Errorf("NewTracingExporter(%q) error: %v", name, err)
			continue
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) returned nil exporter", name)
			continue
		}
		if err := exp.Shutdown(context.Background()); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	}
}

func TestNewTracingExporter_Unknown(t *testing.T) {
	if _, err := NewTracingExporter(context.Background(), "jaeger"); err == nil {
		t.Error("expected error for unknown exporter")
	}
}

func TestNewTracingExporter_OTLPMissingEndpoint(t *testing.T) {
	clearOTLPEnv(t)
	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Error("expected error without an OTLP endpoint")
	}
}

func TestNewMetricsReader_None(t *testing.T) {
	for _, name := range []string{"none", ""} {
		reader, err := NewMetricsReader(context.Background(), name)
		if err != nil {
			t.Errorf("NewMetricsReader(%q) error: %v", name, err)
			continue
		}
		if reader == nil {
			t.Errorf("NewMetricsReader(%q) returned nil reader", name)
			continue
		}
		if err := reader.Shutdown(context.Background()); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	}
}

func TestNewMetricsReader_Prometheus(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "prometheus")
	if err != nil {
		t.Fatalf("NewMetricsReader(prometheus) error: %v", err)
	}
	if err := reader.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestNewMetricsReader_Unknown(t *testing.T) {
	if _, err := NewMetricsReader(context.Background(), "statsd"); err == nil {
		t.Error("expected error for unknown exporter")
	}
}

func TestNewMetricsReader_OTLPMissingEndpoint(t *testing.T) {
	clearOTLPEnv(t)
	if _, err := NewMetricsReader(context.Background(), "otlp"); err == nil {
		t.Error("expected error without an OTLP endpoint")
	}
}

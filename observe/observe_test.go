package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		ServiceName: "memo-test",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"unknown tracing exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, ErrInvalidTracingExporter},
		{"unknown metrics exporter", func(c *Config) { c.Metrics.Exporter = "statsd" }, ErrInvalidMetricsExporter},
		{"sample pct too high", func(c *Config) { c.Tracing.SamplePct = 1.5 }, ErrInvalidSamplePct},
		{"sample pct negative", func(c *Config) { c.Tracing.SamplePct = -0.1 }, ErrInvalidSamplePct},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"disabled sections are not checked", func(c *Config) {
			c.Tracing = TracingConfig{Exporter: "zipkin"}
			c.Metrics = MetricsConfig{Exporter: "statsd"}
			c.Logging = LoggingConfig{Level: "verbose"}
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "memo-test"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil tracer, meter and logger")
	}
	if _, ok := obs.Logger().(*noopLogger); !ok {
		t.Errorf("expected noop logger when logging disabled, got %T", obs.Logger())
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer obs.Shutdown(context.Background())

	ctx, span := obs.Tracer().Start(context.Background(), "startup")
	span.End()
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}

	if _, err := obs.Meter().Int64Counter("startup.count"); err != nil {
		t.Errorf("meter should create instruments: %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("expected ErrMissingServiceName, got %v", err)
	}
}

func TestFromObserver_Nil(t *testing.T) {
	if _, err := RecorderFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("RecorderFromObserver: expected ErrNilObserver, got %v", err)
	}
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("MiddlewareFromObserver: expected ErrNilObserver, got %v", err)
	}
}

func TestFromObserver_Builds(t *testing.T) {
	obs, err := NewObserver(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer obs.Shutdown(context.Background())

	if _, err := RecorderFromObserver(obs); err != nil {
		t.Errorf("RecorderFromObserver failed: %v", err)
	}
	if _, err := MiddlewareFromObserver(obs); err != nil {
		t.Errorf("MiddlewareFromObserver failed: %v", err)
	}
}

func TestNewObserver_Writers(t *testing.T) {
	var logs, spans bytes.Buffer
	ctx := context.Background()

	obs, err := NewObserver(ctx, Config{
		ServiceName: "writers-test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0, Writer: &spans},
		Logging:     LoggingConfig{Enabled: true, Level: "info", Writer: &logs},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	obs.Logger().Info(ctx, "configured writer")
	_, span := obs.Tracer().Start(ctx, "memo.compute.square")
	span.End()

	if err := obs.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if !strings.Contains(logs.String(), `"msg":"configured writer"`) {
		t.Errorf("log entry not written to LoggingConfig.Writer, got %q", logs.String())
	}
	if !strings.Contains(spans.String(), "memo.compute.square") {
		t.Errorf("span not written to TracingConfig.Writer, got %q", spans.String())
	}
}

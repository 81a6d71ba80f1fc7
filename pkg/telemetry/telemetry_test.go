package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestConfig_Validate_Default(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
}

func TestConfig_Validate_MissingServiceName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceName = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty service name, got nil")
	}
}

func TestConfig_Validate_BadExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "jaeger"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported exporter, got nil")
	}
}

func TestConfig_Validate_OTLPRequiresEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "otlp"
	cfg.Tracing.Endpoint = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for otlp without endpoint, got nil")
	}
}

func TestEventPublisher_Publish_FillsIDAndTimestamp(t *testing.T) {
	ep := NewEventPublisher(EventsConfig{Enabled: true})

	var got Event
	ep.Subscribe(func(event Event) { got = event }, nil)

	ep.Publish(Event{Type: EventTypeConstructCreated, Message: "created"})

	if got.ID == "" {
		t.Error("expected event ID to be generated")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected event timestamp to be set")
	}
}

func TestEventPublisher_Publish_DeliveryOrder(t *testing.T) {
	ep := NewEventPublisher(EventsConfig{Enabled: true})

	var order []string
	ep.Subscribe(func(event Event) { order = append(order, "first:"+event.Type) }, nil)
	ep.Subscribe(func(event Event) { order = append(order, "second:"+event.Type) }, nil)

	ep.PublishConstructCreated("Root")
	ep.PublishRenderCompleted(1, time.Millisecond)

	want := []string{
		"first:" + EventTypeConstructCreated,
		"second:" + EventTypeConstructCreated,
		"first:" + EventTypeRenderCompleted,
		"second:" + EventTypeRenderCompleted,
	}
	if len(order) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(order))
	}
	for i, w := range want {
		if order[i] != w {
			t.Errorf("delivery %d: expected %q, got %q", i, w, order[i])
		}
	}
}

func TestEventPublisher_Publish_SubscriberFilter(t *testing.T) {
	ep := NewEventPublisher(EventsConfig{Enabled: true})

	var warnings int
	ep.Subscribe(
		func(event Event) { warnings++ },
		func(event Event) bool { return event.Level == EventLevelWarning },
	)

	ep.PublishConstructCreated("Root")
	ep.PublishLinkDropped([]string{"bucket"})

	if warnings != 1 {
		t.Errorf("expected 1 warning delivery, got %d", warnings)
	}
}

func TestEventPublisher_Publish_GlobalFilter(t *testing.T) {
	ep := NewEventPublisher(EventsConfig{Enabled: true})

	var delivered int
	ep.Subscribe(func(event Event) { delivered++ }, nil)
	ep.AddFilter(func(event Event) bool { return event.Type != EventTypeConstructCreated })

	ep.PublishConstructCreated("Root")
	ep.PublishTweakApplied("bucket", "set", "BucketName")

	if delivered != 1 {
		t.Errorf("expected 1 delivery after filtering, got %d", delivered)
	}
}

func TestEventPublisher_Publish_DisabledIsNoop(t *testing.T) {
	ep := NewEventPublisher(EventsConfig{Enabled: false})

	called := false
	ep.Subscribe(func(event Event) { called = true }, nil)

	ep.PublishConstructCreated("Root")

	if called {
		t.Error("expected no delivery from a disabled publisher")
	}
}

func TestMetrics_DisabledIsNoop(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// All record calls must be safe on a disabled instance.
	m.RecordResourceBuilt("S3::Bucket")
	m.RecordLinkMatched("bucket")
	m.RecordTweakApplied("set")
	m.RecordRender("succeeded", time.Millisecond)

	if err := m.StartServer(); err != nil {
		t.Errorf("expected StartServer to be a no-op, got %v", err)
	}
	if err := m.Shutdown(); err != nil {
		t.Errorf("expected Shutdown to be a no-op, got %v", err)
	}
}

func TestNewTelemetry_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Events.Enabled = true

	tel, err := NewTelemetry(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := tel.WithContext(context.Background())
	if FromTelemetryContext(ctx) != tel {
		t.Error("expected telemetry to round-trip through context")
	}
	if FromTelemetryContext(context.Background()) != nil {
		t.Error("expected nil telemetry from an empty context")
	}

	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestStartOperation_WithoutTelemetry(t *testing.T) {
	op := StartOperation(context.Background(), "stack.render")
	if op.Logger == nil {
		t.Fatal("expected a fallback logger")
	}
	if op.Span != nil {
		t.Error("expected no span without telemetry in context")
	}
	op.End(nil)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	zl := logger.Zerolog()
	if zl.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level, got %v", zl.GetLevel())
	}
}

func TestNewLogger_BadLevelDefaultsToInfo(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "chatty"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if logger.Zerolog().GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected unknown level to fall back to info, got %v", logger.Zerolog().GetLevel())
	}
}

// Package telemetry provides observability instrumentation for Stackform.
//
// The telemetry package integrates structured logging (zerolog), distributed
// tracing (OpenTelemetry), metrics (Prometheus), and event publishing into a
// unified system for monitoring stack builds and renders.
//
// # Architecture
//
// The telemetry system is built on four pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Distributed Tracing - OpenTelemetry traces with multiple exporters
//  3. Metrics Collection - Prometheus metrics for operational insights
//  4. Event Publishing - Synchronous event system for audit and notifications
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "stackform"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with automatic context
// propagation:
//
//	logger := tel.Logger.NewComponentLogger("config")
//	logger = logger.WithStack("web").WithPath("WebBucket")
//	logger.Info("Building resource tree")
//	logger.WithError(err).Error("Build failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into build and render flow:
//
//	ctx, span := tel.Tracer.StartSpan(ctx, "stack.render")
//	defer span.End()
//
//	span.SetAttributes(attribute.String("stack.name", name))
//
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Supported exporters: OTLP/gRPC (production), stdout (development), none.
//
// # Metrics
//
// Prometheus metrics track build behavior:
//
//	tel.Metrics.RecordResourceBuilt("S3::Bucket")
//	tel.Metrics.RecordLinkMatched("bucket")
//	tel.Metrics.RecordTweakApplied("set")
//	tel.Metrics.RecordRender("succeeded", duration)
//
// Metrics are exposed via HTTP at /metrics when a listen address is
// configured, used by long-running modes such as watch.
//
// # Event Publishing
//
// Events are delivered synchronously to subscribers in registration order:
//
//	tel.Events.Subscribe(func(event telemetry.Event) {
//	    fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
//	}, nil)
//
//	tel.Events.PublishRenderCompleted(entries, duration)
//
// # Context Helpers
//
// High-level helpers simplify common instrumentation patterns:
//
//	op := telemetry.StartOperation(ctx, "stack.build",
//	    attribute.String("stack.name", name))
//	defer func() { op.End(err) }()
//
//	op.Logger.Info("Building stack")
package telemetry

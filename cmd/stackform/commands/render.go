package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stackform/stackform/pkg/construct"
	"github.com/stackform/stackform/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

func newRenderCommand() *cobra.Command {
	var (
		outFile       string
		watch         bool
		metricsAddr   string
		traceExporter string
		traceEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the manifest into an output document",
		Long: `Render loads the manifest, builds the resource tree, resolves links and
tweaks, and flattens the tree into a deterministic JSON document.

Entries are keyed by logical ID and sorted by construct path, so the same
manifest always produces byte-identical output.`,
		Example: `  # Render to stdout
  stackform render -m stack.yaml

  # Render to a file
  stackform render -m stack.yaml --out stack.json

  # Re-render whenever the manifest changes
  stackform render -m stack.yaml --out stack.json --watch

  # Expose Prometheus metrics while watching
  stackform render -m stack.yaml --watch --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tel, err := newTelemetry(metricsAddr, traceExporter, traceEndpoint)
			if err != nil {
				return err
			}
			defer func() {
				if err := tel.Shutdown(context.Background()); err != nil {
					log.Warn().Err(err).Msg("Telemetry shutdown failed")
				}
			}()
			ctx = tel.WithContext(ctx)

			if watch && metricsAddr != "" {
				if err := tel.StartMetricsServer(); err != nil {
					return fmt.Errorf("starting metrics server: %w", err)
				}
			}

			if err := renderOnce(ctx, tel, manifestPath, outFile); err != nil {
				if !watch {
					return err
				}
				// In watch mode a broken manifest is recoverable; keep
				// watching and retry on the next change.
				log.Error().Err(err).Msg("Render failed")
			}

			if !watch {
				return nil
			}
			return watchAndRender(ctx, tel, manifestPath, outFile)
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the manifest changes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus listen address for watch mode")
	cmd.Flags().StringVar(&traceExporter, "trace", "", "trace exporter: stdout or otlp")
	cmd.Flags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP collector endpoint")

	return cmd
}

// newTelemetry assembles a telemetry instance from render flags.
func newTelemetry(metricsAddr, traceExporter, traceEndpoint string) (*telemetry.Telemetry, error) {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = metricsAddr
	}
	if traceExporter != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = traceExporter
		cfg.Tracing.Endpoint = traceEndpoint
	}
	return telemetry.NewTelemetry(cfg)
}

// renderOnce builds the tree from the manifest and writes the rendered
// document to outFile, or stdout when outFile is empty.
func renderOnce(ctx context.Context, tel *telemetry.Telemetry, manifestPath, outFile string) error {
	op := telemetry.StartOperation(ctx, "stack.render",
		attribute.String("manifest.path", manifestPath))
	start := time.Now()

	root, manifest, err := buildTree(op.Ctx, manifestPath, tel)
	if err != nil {
		op.End(err)
		tel.Metrics.RecordRender("failed", time.Since(start))
		tel.Events.PublishRenderFailed(err.Error())
		return err
	}

	doc, err := construct.RenderAll(root)
	if err != nil {
		op.End(err)
		tel.Metrics.RecordRender("failed", time.Since(start))
		tel.Events.PublishRenderFailed(err.Error())
		return fmt.Errorf("rendering stack %s: %w", manifest.Stack.Name, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		op.End(err)
		return fmt.Errorf("encoding document: %w", err)
	}
	data = append(data, '\n')

	if outFile == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			op.End(err)
			return err
		}
	} else if err := os.WriteFile(outFile, data, 0o644); err != nil {
		op.End(err)
		return fmt.Errorf("writing output: %w", err)
	}

	op.End(nil)
	duration := time.Since(start)
	tel.Metrics.RecordRender("succeeded", duration)
	tel.Events.PublishRenderCompleted(len(doc), duration)

	log.Info().
		Str("stack", manifest.Stack.Name).
		Int("entries", len(doc)).
		Dur("duration", duration).
		Msg("Rendered document")
	return nil
}

// watchAndRender re-renders whenever the manifest file changes. It returns
// when the context is cancelled.
func watchAndRender(ctx context.Context, tel *telemetry.Telemetry, manifestPath, outFile string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file itself: editors that
	// rename-and-replace would otherwise drop the watch.
	dir := filepath.Dir(manifestPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(manifestPath)
	if err != nil {
		return err
	}

	log.Info().Str("manifest", manifestPath).Msg("Watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug().Str("event", event.Op.String()).Msg("Manifest changed")
			if err := renderOnce(ctx, tel, manifestPath, outFile); err != nil {
				log.Error().Err(err).Msg("Render failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

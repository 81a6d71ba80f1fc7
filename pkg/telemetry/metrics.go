package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for tree construction, link
// resolution, and rendering. A disabled instance is a safe no-op.
type Metrics struct {
	config MetricsConfig

	resourcesBuilt *prometheus.CounterVec
	linksMatched   *prometheus.CounterVec
	tweaksApplied  *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	registry *prometheus.Registry
	server   *http.Server
}

// NewMetrics creates a metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		config:   cfg,
		registry: registry,

		resourcesBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "resources_built_total",
				Help:      "Total number of resources built into trees",
			},
			[]string{"type"},
		),
		linksMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "links_matched_total",
				Help:      "Total number of linkable matches during traversal",
			},
			[]string{"target"},
		),
		tweaksApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tweaks_applied_total",
				Help:      "Total number of tweaks applied to resources",
			},
			[]string{"action"},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "renders_total",
				Help:      "Total number of document renders",
			},
			[]string{"status"},
		),
		renderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of document rendering in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		m.resourcesBuilt,
		m.linksMatched,
		m.tweaksApplied,
		m.renders,
		m.renderDuration,
	)
	return m, nil
}

// RecordResourceBuilt increments the build counter for a resource type.
func (m *Metrics) RecordResourceBuilt(resourceType string) {
	if m.resourcesBuilt != nil {
		m.resourcesBuilt.WithLabelValues(resourceType).Inc()
	}
}

// RecordLinkMatched increments the link-match counter for a target tag.
func (m *Metrics) RecordLinkMatched(target string) {
	if m.linksMatched != nil {
		m.linksMatched.WithLabelValues(target).Inc()
	}
}

// RecordTweakApplied increments the tweak counter for an action.
func (m *Metrics) RecordTweakApplied(action string) {
	if m.tweaksApplied != nil {
		m.tweaksApplied.WithLabelValues(action).Inc()
	}
}

// RecordRender records a render outcome and its duration.
func (m *Metrics) RecordRender(status string, duration time.Duration) {
	if m.renders != nil {
		m.renders.WithLabelValues(status).Inc()
		m.renderDuration.Observe(duration.Seconds())
	}
}

// StartServer serves the Prometheus scrape endpoint on the configured
// listen address. It is a no-op when metrics are disabled or no address
// is configured. Used by long-running modes such as watch.
func (m *Metrics) StartServer() error {
	if m.registry == nil || m.config.ListenAddr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{
		Addr:              m.config.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		_ = m.server.ListenAndServe()
	}()
	return nil
}

// Shutdown stops the scrape endpoint if one is running.
func (m *Metrics) Shutdown() error {
	if m.server == nil {
		return nil
	}
	return m.server.Close()
}

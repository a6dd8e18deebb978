// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/valpere/UIProbe/internal/artifacts"
	"github.com/valpere/UIProbe/internal/page"
	"github.com/valpere/UIProbe/internal/suite"
)

// Metrics records test run metrics in its own Prometheus registry
type Metrics struct {
	registry *prometheus.Registry

	// Case metrics
	casesTotal   *prometheus.CounterVec
	caseDuration *prometheus.HistogramVec

	// Click metrics
	clickAttempts prometheus.Histogram
	forcedClicks  prometheus.Counter
	clicksFailed  prometheus.Counter

	screenshots  *prometheus.CounterVec
	liveSessions prometheus.Gauge
}

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Namespace string            `json:"namespace"`
	Labels    map[string]string `json:"labels"`
	// EnableGoMetrics adds the Go runtime and process collectors.
	EnableGoMetrics bool `json:"enable_go_metrics"`
}

// NewMetrics creates the collectors and registers them
func NewMetrics(config MetricsConfig) *Metrics {
	if config.Namespace == "" {
		config.Namespace = "uiprobe"
	}

	m := &Metrics{registry: prometheus.NewRegistry()}
	if config.EnableGoMetrics {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(prometheus.WrapRegistererWith(config.Labels, m.registry))

	m.casesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "suite",
			Name:      "cases_total",
			Help:      "Finished test cases by module and status",
		},
		[]string{"module", "status"},
	)
	m.caseDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "suite",
			Name:      "case_duration_seconds",
			Help:      "Test case duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"module"},
	)
	m.clickAttempts = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "page",
			Name:      "click_attempts",
			Help:      "Locate attempts needed per scroll-and-retry click",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		},
	)
	m.forcedClicks = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "page",
			Name:      "forced_clicks_total",
			Help:      "Clicks that fell back to a script click after interception",
		},
	)
	m.clicksFailed = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "page",
			Name:      "clicks_failed_total",
			Help:      "Clicks that exhausted their attempts",
		},
	)
	m.screenshots = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "artifacts",
			Name:      "screenshots_total",
			Help:      "Failure screenshots taken by kind",
		},
		[]string{"kind"},
	)
	m.liveSessions = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Subsystem: "browser",
			Name:      "live_sessions",
			Help:      "Browser sessions currently open",
		},
	)

	return m
}

var _ suite.Metrics = (*Metrics)(nil)

func (m *Metrics) CaseFinished(module string, status suite.Status, d time.Duration) {
	m.casesTotal.WithLabelValues(module, string(status)).Inc()
	m.caseDuration.WithLabelValues(module).Observe(d.Seconds())
}

func (m *Metrics) ClickObserved(r page.ClickResult) {
	m.clickAttempts.Observe(float64(r.Attempts))
	if r.Forced {
		m.forcedClicks.Inc()
	}
	if !r.Clicked {
		m.clicksFailed.Inc()
	}
}

func (m *Metrics) ScreenshotTaken(kind artifacts.Kind) {
	m.screenshots.WithLabelValues(string(kind)).Inc()
}

// SessionsLive fits browser.WithLiveSessionHook.
func (m *Metrics) SessionsLive(n int) {
	m.liveSessions.Set(float64(n))
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

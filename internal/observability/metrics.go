package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmRetries  *prometheus.CounterVec
	llmTokens   *prometheus.CounterVec

	extractions   *prometheus.CounterVec
	parseOutcomes *prometheus.CounterVec
	bulkItems     *prometheus.CounterVec
	achievements  prometheus.Counter

	securityEvents *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once. It returns nil when disabled and
// every method is a no-op on a nil *Metrics.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("prometheus metrics enabled")
		}
	})
	return instance
}

// NewMetrics registers a fresh metric set on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cc_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 90},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "cc_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_llm_requests_total",
			Help: "Model calls by provider/kind/outcome.",
		}, []string{"provider", "kind", "outcome"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cc_llm_request_duration_seconds",
			Help:    "Model call latency including the retry.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"provider", "kind"}),
		llmRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_llm_retries_total",
			Help: "Model calls retried after a transient failure.",
		}, []string{"provider", "kind"}),
		llmTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_llm_tokens_total",
			Help: "Tokens reported by the provider.",
		}, []string{"provider", "direction"}),
		extractions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_resume_extractions_total",
			Help: "Document extractions by format/outcome.",
		}, []string{"format", "outcome"}),
		parseOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_parse_outcomes_total",
			Help: "Interpreted model responses by shape/outcome (ok, partial, failed).",
		}, []string{"shape", "outcome"}),
		bulkItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_bulk_items_total",
			Help: "Bulk analysis items by status.",
		}, []string{"status"}),
		achievements: f.NewCounter(prometheus.CounterOpts{
			Name: "cc_achievements_awarded_total",
			Help: "Achievements awarded.",
		}),
		securityEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cc_security_events_total",
			Help: "Authentication and authorization events.",
		}, []string{"event"}),
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = orDefault(method, "UNKNOWN")
	route = orDefault(route, "unknown")
	status = orDefault(status, "0")
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(provider, kind, outcome string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	provider = orDefault(provider, "unknown")
	kind = orDefault(kind, "unknown")
	m.llmRequests.WithLabelValues(provider, kind, orDefault(outcome, "unknown")).Inc()
	if dur > 0 {
		m.llmLatency.WithLabelValues(provider, kind).Observe(dur.Seconds())
	}
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(provider, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(provider, "output").Add(float64(outputTokens))
	}
}

func (m *Metrics) IncLLMRetry(provider, kind string) {
	if m == nil {
		return
	}
	m.llmRetries.WithLabelValues(orDefault(provider, "unknown"), orDefault(kind, "unknown")).Inc()
}

func (m *Metrics) IncExtraction(format, outcome string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(orDefault(format, "unknown"), orDefault(outcome, "unknown")).Inc()
}

func (m *Metrics) IncParseOutcome(shape, outcome string) {
	if m == nil {
		return
	}
	m.parseOutcomes.WithLabelValues(orDefault(shape, "unknown"), orDefault(outcome, "unknown")).Inc()
}

func (m *Metrics) IncBulkItem(status string) {
	if m == nil {
		return
	}
	m.bulkItems.WithLabelValues(orDefault(status, "unknown")).Inc()
}

func (m *Metrics) IncAchievement() {
	if m == nil {
		return
	}
	m.achievements.Inc()
}

func (m *Metrics) IncSecurityEvent(event string) {
	if m == nil {
		return
	}
	m.securityEvents.WithLabelValues(orDefault(event, "unknown")).Inc()
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

package observability

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

const namespace = "majormatch"

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	vectorOps     *prometheus.CounterVec
	vectorLatency *prometheus.HistogramVec

	assessments      *prometheus.CounterVec
	validationIssues *prometheus.CounterVec
	chatTurns        *prometheus.CounterVec

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process metrics, or nil when Init was never called.
// Every method on *Metrics is safe to call on nil.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New builds metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	latencyBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "api_requests_total", Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "api_request_duration_seconds", Help: "HTTP request latency.", Buckets: latencyBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "api_inflight_requests", Help: "HTTP requests currently being served.",
		}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_requests_total", Help: "Calls to the language model API.",
		}, []string{"model", "endpoint", "status"}),
		llmLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "llm_request_duration_seconds", Help: "Language model API latency.", Buckets: latencyBuckets,
		}, []string{"model", "endpoint", "status"}),
		llmTokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_tokens_total", Help: "Tokens reported by the language model API.",
		}, []string{"model", "kind"}),
		vectorOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "vector_store_operations_total", Help: "Vector index operations.",
		}, []string{"op", "status"}),
		vectorLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "vector_store_operation_duration_seconds", Help: "Vector index latency.", Buckets: latencyBuckets,
		}, []string{"op"}),
		assessments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "assessments_total", Help: "Assessment submissions by outcome.",
		}, []string{"outcome"}),
		validationIssues: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "validation_issues_total", Help: "Deterministic validator findings by kind.",
		}, []string{"kind"}),
		chatTurns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "chat_turns_total", Help: "Assistant turns by outcome.",
		}, []string{"outcome"}),
		pgStats: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "postgres_pool", Help: "database/sql pool statistics.",
		}, []string{"stat"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_up", Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_ping_seconds", Help: "Latency of the last redis ping.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
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

func (m *Metrics) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	model = orDefault(model, "unknown")
	endpoint = orDefault(endpoint, "unknown")
	status = orDefault(status, "0")
	m.llmRequests.WithLabelValues(model, endpoint, status).Inc()
	if dur > 0 {
		m.llmLatency.WithLabelValues(model, endpoint, status).Observe(dur.Seconds())
	}
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

func (m *Metrics) ObserveVectorStoreOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	op = orDefault(op, "unknown")
	m.vectorOps.WithLabelValues(op, orDefault(status, "unknown")).Inc()
	if dur > 0 {
		m.vectorLatency.WithLabelValues(op).Observe(dur.Seconds())
	}
}

// IncAssessment counts submissions: "succeeded", "recommendation_failed", "persist_failed".
func (m *Metrics) IncAssessment(outcome string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(orDefault(outcome, "unknown")).Inc()
}

func (m *Metrics) IncValidationIssue(kind string) {
	if m == nil {
		return
	}
	m.validationIssues.WithLabelValues(orDefault(kind, "unknown")).Inc()
}

// IncChatTurn counts assistant turns by chat outcome.
func (m *Metrics) IncChatTurn(outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(orDefault(outcome, "unknown")).Inc()
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// assignment engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runsTotal       prometheus.Counter
	runDuration     prometheus.Histogram
	gameOutcomes    *prometheus.CounterVec
	assignments     prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	runCount             uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_runs_total",
		Help: "Total number of assignment runs",
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assignment_run_duration_seconds",
		Help:    "Duration of assignment runs in seconds",
		Buckets: prometheus.DefBuckets,
	})

	gameOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_game_outcomes_total",
		Help: "Game outcomes produced by assignment runs",
	}, []string{"status"})

	assignments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignments_created_total",
		Help: "Total assignments produced by assignment runs",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runsTotal, runDuration, gameOutcomes, assignments, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runsTotal:       runsTotal,
		runDuration:     runDuration,
		gameOutcomes:    gameOutcomes,
		assignments:     assignments,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveRun records one assignment run's outcome counts and duration.
func (m *MetricsService) ObserveRun(report *models.RunReport, duration time.Duration) {
	if m == nil || report == nil {
		return
	}
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
	m.assignments.Add(float64(len(report.Assignments)))
	m.gameOutcomes.WithLabelValues(string(models.GameFullyAssigned)).Add(float64(report.FullyAssigned))
	m.gameOutcomes.WithLabelValues(string(models.GamePartiallyAssigned)).Add(float64(report.PartiallyAssigned))
	m.gameOutcomes.WithLabelValues(string(models.GameUnassigned)).Add(float64(report.Unassigned))
	atomic.AddUint64(&m.runCount, 1)
}

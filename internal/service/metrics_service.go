package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the key-value backend and register mutations.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	storageDuration   *prometheus.HistogramVec
	storageErrors     *prometheus.CounterVec
	mutations         *prometheus.CounterVec
	studentsTotal     prometheus.Gauge
	attendanceRecords prometheus.Gauge
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

	storageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kv_operation_duration_seconds",
		Help:    "Duration of key-value backend operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "key"})

	storageErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kv_operation_errors_total",
		Help: "Failed key-value backend operations",
	}, []string{"operation", "key"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "register_mutations_total",
		Help: "Register mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	studentsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "register_students",
		Help: "Number of registered students",
	})

	attendanceRecords := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "register_attendance_records",
		Help: "Number of stored attendance records",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storageDuration, storageErrors, mutations, studentsTotal, attendanceRecords, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		storageDuration:   storageDuration,
		storageErrors:     storageErrors,
		mutations:         mutations,
		studentsTotal:     studentsTotal,
		attendanceRecords: attendanceRecords,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStorage implements kvstore.Observer.
func (m *MetricsService) ObserveStorage(operation, key string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(operation, key).Observe(duration.Seconds())
	if err != nil {
		m.storageErrors.WithLabelValues(operation, key).Inc()
	}
}

// RecordMutation counts a register mutation attempt.
func (m *MetricsService) RecordMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}

// SetCollectionSizes publishes the current collection sizes.
func (m *MetricsService) SetCollectionSizes(students, records int) {
	if m == nil {
		return
	}
	m.studentsTotal.Set(float64(students))
	m.attendanceRecords.Set(float64(records))
}

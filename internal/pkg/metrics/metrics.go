// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the attendance and leave workflows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for attendance events.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op so services
// can be constructed without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	attendance      *prometheus.CounterVec
	geofenceMisses  *prometheus.CounterVec
	leaveDecisions  *prometheus.CounterVec
	faceLatency     *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	attendance := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_events_total",
		Help: "Check-in and check-out attempts by outcome",
	}, []string{"action", "outcome", "reason"})

	geofenceMisses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_outside_geofence_total",
		Help: "Accepted attendance events recorded outside the office radius",
	}, []string{"action"})

	leaveDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_request_transitions_total",
		Help: "Leave request status transitions",
	}, []string{"status"})

	faceLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "face_service_request_duration_seconds",
		Help:    "Latency of calls to the face recognition service",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation", "result"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settings_cache_lookups_total",
		Help: "Office settings cache lookups",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration, requestTotal, attendance, geofenceMisses, leaveDecisions, faceLatency, cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		attendance:      attendance,
		geofenceMisses:  geofenceMisses,
		leaveDecisions:  leaveDecisions,
		faceLatency:     faceLatency,
		cacheLookups:    cacheLookups,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records duration and count per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(labels...).Inc()
	})
}

// ObserveAttendance counts a check-in or check-out attempt. reason is empty
// for accepted events.
func (m *Metrics) ObserveAttendance(action, outcome, reason string) {
	if m == nil {
		return
	}
	m.attendance.WithLabelValues(action, outcome, reason).Inc()
}

func (m *Metrics) ObserveOutsideGeofence(action string) {
	if m == nil {
		return
	}
	m.geofenceMisses.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveLeaveTransition(status string) {
	if m == nil {
		return
	}
	m.leaveDecisions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveFaceCall(operation string, ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.faceLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

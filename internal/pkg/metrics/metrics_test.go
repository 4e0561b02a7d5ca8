package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAttendance("check_in", OutcomeAccepted, "")
		m.ObserveOutsideGeofence("check_in")
		m.ObserveLeaveTransition("approved")
		m.ObserveFaceCall("verify", true, time.Millisecond)
		m.ObserveCacheLookup(true)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestObserveAttendance(t *testing.T) {
	m := New()
	m.ObserveAttendance("check_in", OutcomeRejected, "duplicate_check_in")
	m.ObserveAttendance("check_in", OutcomeRejected, "duplicate_check_in")
	m.ObserveAttendance("check_in", OutcomeAccepted, "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attendance.WithLabelValues("check_in", OutcomeRejected, "duplicate_check_in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attendance.WithLabelValues("check_in", OutcomeAccepted, "")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/leave/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leave/requests/abc", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/leave/requests/{id}", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigem_http_requests_total",
			Help: "Total number of HTTP requests received by the API.",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sigem_http_request_duration_seconds",
			Help:    "Duration of HTTP requests handled by the API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	proximityMatchedCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sigem_proximity_matched_candidates",
			Help:    "Candidates matched per proximity query, before truncation.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"category"},
	)

	dispatchRecordsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigem_dispatch_records_written_total",
			Help: "Identified-resource records persisted by dispatch calls.",
		},
		[]string{"category"},
	)

	dispatchOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigem_dispatch_operations_total",
			Help: "Dispatch calls by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		proximityMatchedCandidates,
		dispatchRecordsWrittenTotal,
		dispatchOperationsTotal,
	)
}

// metricsMiddleware records basic request metrics for Prometheus (RPS and latency).
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		durationSeconds := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(route, r.Method, status).Observe(durationSeconds)
	})
}

func observeProximityQuery(category string, matched int) {
	proximityMatchedCandidates.WithLabelValues(category).Observe(float64(matched))
}

func observeDispatch(perCategory map[string]int, outcome string) {
	for category, count := range perCategory {
		dispatchRecordsWrittenTotal.WithLabelValues(category).Add(float64(count))
	}
	dispatchOperationsTotal.WithLabelValues(outcome).Inc()
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metricsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	if s.cfg.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.HTTP.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/v1", s.v1Routes())

	return r
}

func (s *Server) v1Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/incidents", func(r chi.Router) {
		r.Post("/", s.handleCreateIncident)
		r.Get("/", s.handleListIncidents)
		r.Get("/{incidentID}", s.handleGetIncident)
		r.Get("/{incidentID}/resources", s.handleListResourcesNearIncident)
	})

	r.Get("/resources/nearby", s.handleListResourcesNearby)
	r.Post("/dispatches", s.handleRecordDispatch)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Msg("http request")
	})
}

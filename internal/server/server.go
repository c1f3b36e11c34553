package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sigem/api/internal/catalog"
	"sigem/api/internal/config"
	"sigem/api/internal/database"
	"sigem/api/internal/dispatch"
	"sigem/api/internal/geo"
	"sigem/api/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// queryService is the proximity read path the handlers consume.
type queryService interface {
	NearIncident(ctx context.Context, incidentID int64, radiusKm float64, categories []catalog.Category) (*dispatch.QueryResult, error)
	NearPoint(ctx context.Context, origin geo.Point, radiusKm float64, categories []catalog.Category) (*dispatch.QueryResult, error)
}

// dispatchRecorder is the write path the handlers consume.
type dispatchRecorder interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

// incidentStore covers the incident intake and read-back operations.
type incidentStore interface {
	GetIncident(ctx context.Context, id int64) (*store.Incident, error)
	CreateIncident(ctx context.Context, inc *store.Incident) error
	ListIncidents(ctx context.Context, limit, offset int32) ([]store.Incident, error)
	ListResourcesByIncident(ctx context.Context, incidentID int64) ([]store.IdentifiedResource, error)
	ListActionsByIncident(ctx context.Context, incidentID int64) ([]store.Action, error)
}

// Server wires configuration, dependencies and HTTP routing together.
type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	pool      *pgxpool.Pool
	incidents incidentStore
	query     queryService
	recorder  dispatchRecorder
	validate  *validator.Validate
	startedAt time.Time
}

// New instantiates the HTTP server, runs DB migrations and prepares shared dependencies.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Server, error) {
	pool, err := database.NewPool(ctx, cfg.Database, cfg.AppName, log)
	if err != nil {
		return nil, err
	}

	st := store.New(pool)
	loader := catalog.NewLoader(cfg.Catalog.Dir, log)

	srv := &Server{
		cfg:       cfg,
		log:       log,
		pool:      pool,
		incidents: st,
		query:     dispatch.NewQueryService(st, loader, log),
		recorder:  dispatch.NewRecorder(st, loader, log),
		validate:  newValidator(),
		startedAt: time.Now().UTC(),
	}

	return srv, nil
}

// Close releases database resources.
func (s *Server) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or an unrecoverable error occurs.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.routes(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	s.log.Info().Str("addr", s.cfg.HTTP.Address).Msg("http server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("latitude", func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		return val >= -90 && val <= 90
	})
	_ = v.RegisterValidation("longitude", func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		return val >= -180 && val <= 180
	})
	return v
}

package server

import (
	"net/http"
	"time"
)

// handleHealth godoc
// @Title Health check
// @Description Reports service liveness, database reachability and uptime.
// @Resource System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Route /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := HealthResponse{
		Status: "ok",
		Env:    s.cfg.Env,
		Uptime: time.Since(s.startedAt).String(),
	}

	code := http.StatusOK
	if s.pool != nil {
		payload.Database = "ok"
		if err := s.pool.Ping(r.Context()); err != nil {
			payload.Status = "degraded"
			payload.Database = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, code, payload)
}

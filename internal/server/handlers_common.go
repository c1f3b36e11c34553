package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sigem/api/internal/dispatch"
)

type APIError struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

const (
	errInvalidPayload    = "invalid payload"
	errInvalidIncidentID = "invalid incident id"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, details interface{}) {
	s.writeJSON(w, status, APIError{Error: message, Details: details})
}

// writeDomainError maps the dispatch core's error kinds onto HTTP statuses.
// Anything unrecognized is logged and reported as a generic failure.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "incident not found", err.Error())
	case errors.Is(err, dispatch.ErrInvalidRadius):
		s.writeError(w, http.StatusBadRequest, "invalid radius", err.Error())
	case errors.Is(err, dispatch.ErrMissingLocation):
		s.writeError(w, http.StatusBadRequest, "incident has no coordinates", err.Error())
	case errors.Is(err, dispatch.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, err.Error())
	case errors.Is(err, dispatch.ErrPersistence):
		s.writeError(w, http.StatusInternalServerError, "persistence failure", err.Error())
	default:
		s.log.Error().Err(err).Msg("unhandled error in request")
		s.writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func (s *Server) decodeAndValidate(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := s.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) parseIncidentIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "incidentID"))
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("incident id must be a positive integer")
	}
	return id, nil
}

// parseRadius reads the optional radius_km query parameter, defaulting when
// absent. Range validation is the query service's job.
func parseRadius(r *http.Request, defaultKm float64) (float64, error) {
	raw := r.URL.Query().Get("radius_km")
	if raw == "" {
		return defaultKm, nil
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("radius_km must be numeric")
	}
	return radius, nil
}

func (s *Server) paginate(r *http.Request, defaultLimit int32) (limit int32, offset int32) {
	query := r.URL.Query()
	limit = defaultLimit
	offset = 0
	if l := query.Get("limit"); l != "" {
		if parsed, err := parseInt32(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if o := query.Get("offset"); o != "" {
		if parsed, err := parseInt32(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return
}

func parseInt32(value string) (int32, error) {
	if strings.TrimSpace(value) == "" {
		return 0, errors.New("empty value")
	}
	n64, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n64), nil
}

func optionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func stringPtrOrNil(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func timePtr(t time.Time) *time.Time {
	return &t
}

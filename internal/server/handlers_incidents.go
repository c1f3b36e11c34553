package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sigem/api/internal/geo"
	"sigem/api/internal/status"
	"sigem/api/internal/store"
)

// CreateIncidentRequest is the intake payload. Coordinates are optional but
// must come as a pair and fall inside the metropolitan bounding box.
type CreateIncidentRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Address     string   `json:"address"`
	District    string   `json:"district" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// handleCreateIncident godoc
// @Title Create incident
// @Description Registers a new incident with automatic report and closure timestamps.
// @Resource Incidents
// @Accept json
// @Produce json
// @Param request body CreateIncidentRequest true "Incident payload"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Route /v1/incidents [post]
func (s *Server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, "incident name is required")
		return
	}

	district := strings.TrimSpace(req.District)
	if !geo.IsMetropolitanDistrict(district) {
		s.writeError(w, http.StatusBadRequest, "district outside metropolitan area", district)
		return
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, "latitude and longitude must be provided together")
		return
	}
	if req.Latitude != nil {
		point := geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
		if !geo.InMetropolitanBBox(point) {
			s.writeError(w, http.StatusBadRequest, "coordinates outside metropolitan area", point)
			return
		}
	}

	now := time.Now().UTC()
	normalized := status.Normalize(req.Status)

	incident := &store.Incident{
		Name:        name,
		Description: stringPtrOrNil(req.Description),
		Category:    stringPtrOrNil(req.Category),
		Status:      stringPtrOrNil(normalized),
		ReportedAt:  now,
		Lat:         req.Latitude,
		Lon:         req.Longitude,
		Address:     stringPtrOrNil(req.Address),
		District:    &district,
	}
	// Closure timestamp is set if and only if the stored status is terminal.
	if status.ClosesIncident(normalized) {
		incident.ClosedAt = timePtr(now)
	}

	if err := s.incidents.CreateIncident(r.Context(), incident); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create incident", err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, mapIncident(incident))
}

// handleListIncidents godoc
// @Title List incidents
// @Description Lists incidents newest-first with limit/offset pagination.
// @Resource Incidents
// @Produce json
// @Param limit query int false "Maximum incidents" default(25)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} APIError
// @Route /v1/incidents [get]
func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	limit, offset := s.paginate(r, 25)

	rows, err := s.incidents.ListIncidents(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list incidents", err.Error())
		return
	}

	resp := make([]IncidentResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, mapIncident(&rows[i]))
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleGetIncident godoc
// @Title Get incident
// @Description Returns an incident together with its identified resources and action log.
// @Resource Incidents
// @Produce json
// @Param incidentID path int true "Incident ID"
// @Success 200 {object} IncidentDetailResponse
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Route /v1/incidents/{incidentID} [get]
func (s *Server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	incidentID, err := s.parseIncidentIDParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidIncidentID, err.Error())
		return
	}

	incident, err := s.incidents.GetIncident(r.Context(), incidentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "incident not found", nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to fetch incident", err.Error())
		return
	}

	resources, err := s.incidents.ListResourcesByIncident(r.Context(), incidentID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch resources", err.Error())
		return
	}
	actions, err := s.incidents.ListActionsByIncident(r.Context(), incidentID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to fetch actions", err.Error())
		return
	}

	resp := IncidentDetailResponse{
		IncidentResponse: mapIncident(incident),
		Resources:        make([]ResourceRecordResponse, 0, len(resources)),
		Actions:          make([]ActionResponse, 0, len(actions)),
	}
	for _, res := range resources {
		dto := ResourceRecordResponse{
			ID:         res.ID,
			Category:   res.Category,
			ExternalID: res.ExternalID,
			Label:      res.Label,
			Distance:   res.Distance,
			CreatedAt:  res.CreatedAt,
		}
		if res.Lat != nil && res.Lon != nil {
			dto.Location = &GeoPoint{Latitude: *res.Lat, Longitude: *res.Lon}
		}
		resp.Resources = append(resp.Resources, dto)
	}
	for _, act := range actions {
		resp.Actions = append(resp.Actions, ActionResponse{
			ID:        act.ID,
			Type:      act.Type,
			Narrative: act.Narrative,
			CreatedAt: act.CreatedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func mapIncident(inc *store.Incident) IncidentResponse {
	resp := IncidentResponse{
		ID:          inc.ID,
		Name:        inc.Name,
		Description: optionalString(inc.Description),
		Category:    optionalString(inc.Category),
		Status:      optionalString(inc.Status),
		ReportedAt:  inc.ReportedAt,
		ClosedAt:    inc.ClosedAt,
		Address:     optionalString(inc.Address),
		District:    optionalString(inc.District),
	}
	if inc.Lat != nil && inc.Lon != nil {
		resp.Location = &GeoPoint{Latitude: *inc.Lat, Longitude: *inc.Lon}
	}
	return resp
}

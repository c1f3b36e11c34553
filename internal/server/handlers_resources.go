package server

import (
	"net/http"
	"strconv"

	"sigem/api/internal/catalog"
	"sigem/api/internal/dispatch"
	"sigem/api/internal/geo"
)

// handleListResourcesNearIncident godoc
// @Title List resources near an incident
// @Description Returns catalog resources within a radius of the incident location, ranked by distance.
// @Resource Resources
// @Produce json
// @Param incidentID path int true "Incident ID"
// @Param radius_km query number false "Search radius in km (0 < r <= 50)" default(5.0)
// @Param category query string false "fire-units | hydrants | all" default(all)
// @Success 200 {object} ProximityResponse
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Route /v1/incidents/{incidentID}/resources [get]
func (s *Server) handleListResourcesNearIncident(w http.ResponseWriter, r *http.Request) {
	incidentID, err := s.parseIncidentIDParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidIncidentID, err.Error())
		return
	}

	radiusKm, categories, categoryParam, ok := s.parseProximityParams(w, r)
	if !ok {
		return
	}

	result, err := s.query.NearIncident(r.Context(), incidentID, radiusKm, categories)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, mapProximityResult(result, categoryParam))
}

// handleListResourcesNearby godoc
// @Title List resources near a coordinate
// @Description Returns catalog resources within a radius of a raw coordinate, without an incident.
// @Resource Resources
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius_km query number false "Search radius in km (0 < r <= 50)" default(5.0)
// @Param category query string false "fire-units | hydrants | all" default(all)
// @Success 200 {object} ProximityResponse
// @Failure 400 {object} APIError
// @Route /v1/resources/nearby [get]
func (s *Server) handleListResourcesNearby(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		s.writeError(w, http.StatusBadRequest, "latitude and longitude are required", nil)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid latitude", err.Error())
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid longitude", err.Error())
		return
	}

	radiusKm, categories, categoryParam, ok := s.parseProximityParams(w, r)
	if !ok {
		return
	}

	result, err := s.query.NearPoint(r.Context(), geo.Point{Lat: lat, Lon: lon}, radiusKm, categories)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, mapProximityResult(result, categoryParam))
}

// parseProximityParams reads the shared radius_km and category query
// parameters, writing the error response itself on failure.
func (s *Server) parseProximityParams(w http.ResponseWriter, r *http.Request) (float64, []catalog.Category, string, bool) {
	radiusKm, err := parseRadius(r, geo.DefaultRadiusKm)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid radius", err.Error())
		return 0, nil, "", false
	}

	categoryParam := r.URL.Query().Get("category")
	categories, err := catalog.ParseCategory(categoryParam)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid category", err.Error())
		return 0, nil, "", false
	}
	if categoryParam == "" {
		categoryParam = "all"
	}

	return radiusKm, categories, categoryParam, true
}

func mapProximityResult(result *dispatch.QueryResult, categoryParam string) ProximityResponse {
	resources := make(map[string]CategoryResultResponse, len(result.Categories))
	for _, cr := range result.Categories {
		returned := make([]RankedResourceDTO, 0, len(cr.Resources))
		for _, res := range cr.Resources {
			returned = append(returned, RankedResourceDTO{
				ID:         res.ID,
				Name:       res.Name,
				Location:   GeoPoint{Latitude: res.Lat, Longitude: res.Lon},
				DistanceKm: res.DistanceKm,
			})
		}
		resources[string(cr.Category)] = CategoryResultResponse{
			MatchedCount: cr.MatchedCount,
			Returned:     returned,
		}
		observeProximityQuery(string(cr.Category), cr.MatchedCount)
	}

	resp := ProximityResponse{
		Origin:    GeoPoint{Latitude: result.Origin.Lat, Longitude: result.Origin.Lon},
		Filters:   QueryFilters{RadiusKm: result.RadiusKm, Category: categoryParam},
		Resources: resources,
	}

	if inc := result.Incident; inc != nil {
		summary := &IncidentSummary{
			ID:       inc.ID,
			Name:     inc.Name,
			District: optionalString(inc.District),
			Address:  optionalString(inc.Address),
		}
		if inc.Lat != nil && inc.Lon != nil {
			summary.Location = &GeoPoint{Latitude: *inc.Lat, Longitude: *inc.Lon}
		}
		resp.Incident = summary
	}

	return resp
}

package server

import "time"

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type IncidentResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Status      string     `json:"status,omitempty"`
	ReportedAt  time.Time  `json:"reported_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	Location    *GeoPoint  `json:"location,omitempty"`
	Address     string     `json:"address,omitempty"`
	District    string     `json:"district,omitempty"`
}

type IncidentDetailResponse struct {
	IncidentResponse
	Resources []ResourceRecordResponse `json:"resources"`
	Actions   []ActionResponse         `json:"actions"`
}

type ResourceRecordResponse struct {
	ID         int64     `json:"id"`
	Category   string    `json:"category"`
	ExternalID string    `json:"external_id"`
	Label      string    `json:"label,omitempty"`
	Location   *GeoPoint `json:"location,omitempty"`
	Distance   string    `json:"distance"`
	CreatedAt  time.Time `json:"created_at"`
}

type ActionResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Narrative string    `json:"narrative"`
	CreatedAt time.Time `json:"created_at"`
}

// IncidentSummary is the echo block of incident-relative proximity queries.
type IncidentSummary struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	District string    `json:"district,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
	Address  string    `json:"address,omitempty"`
}

type RankedResourceDTO struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Location   GeoPoint `json:"location"`
	DistanceKm float64  `json:"distance_km"`
}

// CategoryResultResponse reports the full matched count alongside the
// truncated list so clients can distinguish "more than shown" from "exactly
// this many".
type CategoryResultResponse struct {
	MatchedCount int                 `json:"matched_count"`
	Returned     []RankedResourceDTO `json:"returned"`
}

type QueryFilters struct {
	RadiusKm float64 `json:"radius_km"`
	Category string  `json:"category"`
}

type ProximityResponse struct {
	Incident  *IncidentSummary                  `json:"incident,omitempty"`
	Origin    GeoPoint                          `json:"origin"`
	Filters   QueryFilters                      `json:"filters"`
	Resources map[string]CategoryResultResponse `json:"resources"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Env      string `json:"env"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime"`
}

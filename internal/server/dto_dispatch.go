package server

import "time"

// RecordDispatchRequest is the payload of POST /v1/dispatches: the selected
// candidate ids per category plus the narrative of the actions taken.
type RecordDispatchRequest struct {
	IncidentID   int64             `json:"incident_id" validate:"required,min=1"`
	Narrative    string            `json:"narrative" validate:"required"`
	Observations string            `json:"observations"`
	Resources    SelectedResources `json:"resources"`
}

// SelectedResources groups the opaque catalog ids the operator picked.
type SelectedResources struct {
	FireUnits []int64 `json:"fire-units"`
	Hydrants  []int64 `json:"hydrants"`
}

// DispatchRecordDTO is one persisted resource echoed back for display.
type DispatchRecordDTO struct {
	Category   string  `json:"category"`
	ExternalID int64   `json:"external_id"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
}

// RecordDispatchResponse summarizes a committed dispatch.
type RecordDispatchResponse struct {
	OperationID     string              `json:"operation_id"`
	IncidentID      int64               `json:"incident_id"`
	TotalWritten    int                 `json:"total_written"`
	PerCategory     map[string]int      `json:"per_category"`
	Records         []DispatchRecordDTO `json:"records"`
	ActionTimestamp time.Time           `json:"action_timestamp"`
}

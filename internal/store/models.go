package store

import "time"

// Incident is a reported emergency event. Coordinates are optional: intake
// accepts incidents located only by address, and the proximity read path
// rejects those with a missing-location error.
type Incident struct {
	ID          int64
	Name        string
	Description *string
	Category    *string
	Status      *string
	ReportedAt  time.Time
	ClosedAt    *time.Time
	Lat         *float64
	Lon         *float64
	Address     *string
	District    *string
}

// IdentifiedResource is an append-only snapshot of a catalog candidate at the
// moment it was selected for an incident. Never updated after insertion.
type IdentifiedResource struct {
	ID         int64
	IncidentID int64
	Category   string
	ExternalID string
	Lat        *float64
	Lon        *float64
	Label      string
	Distance   string
	CreatedAt  time.Time
}

// Deployment tracks the movement lifecycle of one dispatched resource.
// ArrivedAt stays unset until an out-of-band process records arrival.
type Deployment struct {
	ID         int64
	IncidentID int64
	TypeCode   int16
	DepartedAt time.Time
	ArrivedAt  *time.Time
	Status     string
}

// Action is one entry of the append-only audit trail of an incident.
type Action struct {
	ID         int64
	IncidentID int64
	Type       string
	Narrative  string
	CreatedAt  time.Time
}

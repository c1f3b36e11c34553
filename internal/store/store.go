// Package store is the persistence collaborator: incident lookup plus the
// transactional dispatch write. All statements run against Postgres through
// pgx; the DB interface is narrow so tests can substitute pgxmock.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sigem/api/internal/status"
)

// ErrNotFound is returned when a referenced incident does not exist.
var ErrNotFound = errors.New("incident not found")

// DB is the subset of pgxpool.Pool the store depends on.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store wraps a database handle with the queries of the dispatch core.
type Store struct {
	db DB
}

// New builds a Store over db.
func New(db DB) *Store {
	return &Store{db: db}
}

const incidentColumns = `id, name, description, category, status, reported_at, closed_at, lat, lon, address, district`

// GetIncident resolves an incident by id.
func (s *Store) GetIncident(ctx context.Context, id int64) (*Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`

	inc := &Incident{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&inc.ID, &inc.Name, &inc.Description, &inc.Category, &inc.Status,
		&inc.ReportedAt, &inc.ClosedAt, &inc.Lat, &inc.Lon, &inc.Address, &inc.District,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get incident %d: %w", id, err)
	}
	return inc, nil
}

// CreateIncident inserts a new incident and fills in its assigned id.
func (s *Store) CreateIncident(ctx context.Context, inc *Incident) error {
	query := `
		INSERT INTO incidents (name, description, category, status, reported_at, closed_at, lat, lon, address, district)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := s.db.QueryRow(ctx, query,
		inc.Name, inc.Description, inc.Category, inc.Status,
		inc.ReportedAt, inc.ClosedAt, inc.Lat, inc.Lon, inc.Address, inc.District,
	).Scan(&inc.ID)
	if err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// ListIncidents returns incidents newest-first.
func (s *Store) ListIncidents(ctx context.Context, limit, offset int32) ([]Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY reported_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]Incident, 0)
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(
			&inc.ID, &inc.Name, &inc.Description, &inc.Category, &inc.Status,
			&inc.ReportedAt, &inc.ClosedAt, &inc.Lat, &inc.Lon, &inc.Address, &inc.District,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

// ListResourcesByIncident returns the identified-resource history of an
// incident in insertion order.
func (s *Store) ListResourcesByIncident(ctx context.Context, incidentID int64) ([]IdentifiedResource, error) {
	query := `
		SELECT id, incident_id, category, external_id, lat, lon, label, distance, created_at
		FROM identified_resources WHERE incident_id = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list resources for incident %d: %w", incidentID, err)
	}
	defer rows.Close()

	resources := make([]IdentifiedResource, 0)
	for rows.Next() {
		var res IdentifiedResource
		if err := rows.Scan(
			&res.ID, &res.IncidentID, &res.Category, &res.ExternalID,
			&res.Lat, &res.Lon, &res.Label, &res.Distance, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources for incident %d: %w", incidentID, err)
	}
	return resources, nil
}

// ListActionsByIncident returns the action log of an incident oldest-first.
func (s *Store) ListActionsByIncident(ctx context.Context, incidentID int64) ([]Action, error) {
	query := `
		SELECT id, incident_id, action_type, narrative, created_at
		FROM actions WHERE incident_id = $1 ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list actions for incident %d: %w", incidentID, err)
	}
	defer rows.Close()

	actions := make([]Action, 0)
	for rows.Next() {
		var act Action
		if err := rows.Scan(&act.ID, &act.IncidentID, &act.Type, &act.Narrative, &act.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list actions for incident %d: %w", incidentID, err)
	}
	return actions, nil
}

// RecordDispatch persists one dispatch as a single transaction: every
// identified resource, every deployment, the action entry and the status
// advance commit together or not at all. The incident status is re-read
// inside the transaction so a concurrently closed incident is never pushed
// back to an earlier state.
func (s *Store) RecordDispatch(ctx context.Context, incidentID int64, resources []IdentifiedResource, deployments []Deployment, action Action) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin dispatch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, res := range resources {
		_, err := tx.Exec(ctx, `
			INSERT INTO identified_resources (incident_id, category, external_id, lat, lon, label, distance, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			incidentID, res.Category, res.ExternalID, res.Lat, res.Lon, res.Label, res.Distance, res.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert identified resource: %w", err)
		}
	}

	for _, dep := range deployments {
		_, err := tx.Exec(ctx, `
			INSERT INTO deployments (incident_id, type_code, departed_at, arrived_at, status)
			VALUES ($1, $2, $3, $4, $5)`,
			incidentID, dep.TypeCode, dep.DepartedAt, dep.ArrivedAt, dep.Status,
		)
		if err != nil {
			return fmt.Errorf("insert deployment: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO actions (incident_id, action_type, narrative, created_at)
		VALUES ($1, $2, $3, $4)`,
		incidentID, action.Type, action.Narrative, action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}

	// Re-read under lock: the CLOSED latch must hold against concurrent
	// dispatches and closures.
	var current *string
	if err := tx.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1 FOR UPDATE`, incidentID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident %d: %w", incidentID, ErrNotFound)
		}
		return fmt.Errorf("lock incident %d: %w", incidentID, err)
	}

	if current == nil || !status.IsClosed(*current) {
		if _, err := tx.Exec(ctx, `UPDATE incidents SET status = $1 WHERE id = $2`, status.InProgress, incidentID); err != nil {
			return fmt.Errorf("advance incident %d status: %w", incidentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit dispatch transaction: %w", err)
	}
	return nil
}

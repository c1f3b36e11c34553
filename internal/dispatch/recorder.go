package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sigem/api/internal/catalog"
	"sigem/api/internal/geo"
	"sigem/api/internal/store"
)

// ActionResourcesDeployed is the action type recorded for every dispatch.
const ActionResourcesDeployed = "RESOURCES_DEPLOYED"

// DispatchStore is the persistence surface the write path needs.
type DispatchStore interface {
	GetIncident(ctx context.Context, id int64) (*store.Incident, error)
	RecordDispatch(ctx context.Context, incidentID int64, resources []store.IdentifiedResource, deployments []store.Deployment, action store.Action) error
}

// Request describes one dispatch confirmation: which candidates were selected
// per category and the narrative of the actions taken.
type Request struct {
	IncidentID   int64
	Narrative    string
	Observations string
	Selected     map[catalog.Category][]int64
}

// RecordSummary reports one persisted resource back to the client.
type RecordSummary struct {
	Category   catalog.Category
	ExternalID int64
	Name       string
	DistanceKm float64
}

// Result summarizes a committed dispatch.
type Result struct {
	OperationID  uuid.UUID
	IncidentID   int64
	TotalWritten int
	PerCategory  map[catalog.Category]int
	Records      []RecordSummary
	ActionAt     time.Time
}

// Recorder is the dispatch write path. Validation is fail-fast: nothing is
// written until every check passes, and the store commits all rows of one
// dispatch atomically.
type Recorder struct {
	store   DispatchStore
	catalog CatalogSource
	log     zerolog.Logger
}

// NewRecorder builds the write path over the store and the catalog.
func NewRecorder(st DispatchStore, cat CatalogSource, log zerolog.Logger) *Recorder {
	return &Recorder{
		store:   st,
		catalog: cat,
		log:     log.With().Str("component", "dispatch-recorder").Logger(),
	}
}

// Dispatch validates the request, re-resolves the selected candidates from
// the catalog and persists the identified resources, deployments, action
// entry and status advance as one transaction. Selection ids that no longer
// resolve are skipped and simply left out of the summary.
func (r *Recorder) Dispatch(ctx context.Context, req Request) (*Result, error) {
	incident, err := r.store.GetIncident(ctx, req.IncidentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("incident %d: %w", req.IncidentID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	narrative := strings.TrimSpace(req.Narrative)
	if narrative == "" {
		return nil, fmt.Errorf("%w: action narrative is required", ErrInvalidInput)
	}

	totalSelected := 0
	for _, ids := range req.Selected {
		totalSelected += len(ids)
	}
	if totalSelected == 0 {
		return nil, fmt.Errorf("%w: at least one resource must be selected", ErrInvalidInput)
	}

	if incident.Lat == nil || incident.Lon == nil {
		return nil, fmt.Errorf("incident %d: %w", req.IncidentID, ErrMissingLocation)
	}
	origin := geo.Point{Lat: *incident.Lat, Lon: *incident.Lon}

	now := time.Now().UTC()
	opID := uuid.New()
	log := r.log.With().Stringer("operation_id", opID).Int64("incident_id", req.IncidentID).Logger()

	var (
		resources   []store.IdentifiedResource
		deployments []store.Deployment
		records     []RecordSummary
		perCategory = make(map[catalog.Category]int)
	)

	for _, category := range catalog.AllCategories() {
		for _, id := range req.Selected[category] {
			candidate, ok := r.catalog.Resolve(ctx, category, id)
			if !ok {
				log.Debug().Str("category", string(category)).Int64("external_id", id).
					Msg("selected candidate not in catalog, skipping")
				continue
			}

			lat, lon, ok := candidate.Position()
			if !ok {
				log.Debug().Str("category", string(category)).Int64("external_id", id).
					Msg("selected candidate has no coordinate, skipping")
				continue
			}
			distance := geo.Distance(origin.Lat, origin.Lon, lat, lon)

			resources = append(resources, store.IdentifiedResource{
				IncidentID: req.IncidentID,
				Category:   string(category),
				ExternalID: strconv.FormatInt(candidate.ID, 10),
				Lat:        candidate.Lat,
				Lon:        candidate.Lon,
				Label:      candidate.Name,
				Distance:   geo.FormatDistance(distance),
				CreatedAt:  now,
			})
			deployments = append(deployments, store.Deployment{
				IncidentID: req.IncidentID,
				TypeCode:   category.TypeCode(),
				DepartedAt: now,
				Status:     category.DeploymentStatus(),
			})
			records = append(records, RecordSummary{
				Category:   category,
				ExternalID: candidate.ID,
				Name:       candidate.Name,
				DistanceKm: geo.RoundKm(distance),
			})
			perCategory[category]++
		}
	}

	narrativeFull := narrative
	if obs := strings.TrimSpace(req.Observations); obs != "" {
		narrativeFull += "\n\nObservations: " + obs
	}
	action := store.Action{
		IncidentID: req.IncidentID,
		Type:       ActionResourcesDeployed,
		Narrative:  narrativeFull,
		CreatedAt:  now,
	}

	if err := r.store.RecordDispatch(ctx, req.IncidentID, resources, deployments, action); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("incident %d: %w", req.IncidentID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	log.Info().
		Int("selected", totalSelected).
		Int("written", len(resources)).
		Msg("dispatch recorded")

	return &Result{
		OperationID:  opID,
		IncidentID:   req.IncidentID,
		TotalWritten: len(resources),
		PerCategory:  perCategory,
		Records:      records,
		ActionAt:     now,
	}, nil
}

// Package dispatch holds the two top-level workflows of the coordination
// core: the proximity read path (QueryService) and the transactional write
// path (Recorder).
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"sigem/api/internal/catalog"
	"sigem/api/internal/geo"
	"sigem/api/internal/store"
)

// IncidentReader resolves incidents from the persistence collaborator.
type IncidentReader interface {
	GetIncident(ctx context.Context, id int64) (*store.Incident, error)
}

// CatalogSource supplies the static candidate snapshot.
type CatalogSource interface {
	Load(ctx context.Context, category catalog.Category) []catalog.Candidate
	Resolve(ctx context.Context, category catalog.Category, id int64) (catalog.Candidate, bool)
}

// RankedResource is one candidate returned by a proximity query.
type RankedResource struct {
	ID         int64
	Name       string
	Lat        float64
	Lon        float64
	DistanceKm float64
}

// CategoryResult carries the ranked candidates of one category. Resources is
// truncated to the category display cap; MatchedCount is the pre-truncation
// total so callers can tell "more than shown" from "exactly this many".
type CategoryResult struct {
	Category     catalog.Category
	MatchedCount int
	Resources    []RankedResource
}

// QueryResult is the answer to "what is near this point". Incident is set
// only for incident-relative queries.
type QueryResult struct {
	Incident   *store.Incident
	Origin     geo.Point
	RadiusKm   float64
	Categories []CategoryResult
}

// QueryService answers proximity queries. It performs no writes and is safe
// for concurrent use.
type QueryService struct {
	incidents IncidentReader
	catalog   CatalogSource
	log       zerolog.Logger
}

// NewQueryService builds the read path over its two collaborators.
func NewQueryService(incidents IncidentReader, cat CatalogSource, log zerolog.Logger) *QueryService {
	return &QueryService{
		incidents: incidents,
		catalog:   cat,
		log:       log.With().Str("component", "resource-query").Logger(),
	}
}

// NearIncident resolves the incident and answers the proximity query from
// its coordinate.
func (q *QueryService) NearIncident(ctx context.Context, incidentID int64, radiusKm float64, categories []catalog.Category) (*QueryResult, error) {
	if err := geo.ValidateRadius(radiusKm); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRadius, err)
	}

	incident, err := q.incidents.GetIncident(ctx, incidentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("incident %d: %w", incidentID, ErrNotFound)
		}
		return nil, err
	}

	if incident.Lat == nil || incident.Lon == nil {
		return nil, fmt.Errorf("incident %d: %w", incidentID, ErrMissingLocation)
	}

	result, err := q.NearPoint(ctx, geo.Point{Lat: *incident.Lat, Lon: *incident.Lon}, radiusKm, categories)
	if err != nil {
		return nil, err
	}
	result.Incident = incident
	return result, nil
}

// NearPoint answers the proximity query for a raw coordinate. A category
// whose snapshot cannot be read contributes an empty result instead of an
// error: no nearby resources is a displayable outcome.
func (q *QueryService) NearPoint(ctx context.Context, origin geo.Point, radiusKm float64, categories []catalog.Category) (*QueryResult, error) {
	if err := geo.ValidateRadius(radiusKm); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRadius, err)
	}
	if len(categories) == 0 {
		categories = catalog.AllCategories()
	}

	result := &QueryResult{
		Origin:     origin,
		RadiusKm:   radiusKm,
		Categories: make([]CategoryResult, 0, len(categories)),
	}

	for _, category := range categories {
		candidates := q.catalog.Load(ctx, category)
		matches := geo.RankByDistance(origin, candidates, radiusKm)

		limit := category.DisplayCap()
		shown := matches
		if len(shown) > limit {
			shown = shown[:limit]
		}

		resources := make([]RankedResource, 0, len(shown))
		for _, m := range shown {
			lat, lon, _ := m.Candidate.Position()
			resources = append(resources, RankedResource{
				ID:         m.Candidate.ID,
				Name:       m.Candidate.Name,
				Lat:        lat,
				Lon:        lon,
				DistanceKm: geo.RoundKm(m.DistanceKm),
			})
		}

		result.Categories = append(result.Categories, CategoryResult{
			Category:     category,
			MatchedCount: len(matches),
			Resources:    resources,
		})

		q.log.Debug().
			Str("category", string(category)).
			Float64("radius_km", radiusKm).
			Int("matched", len(matches)).
			Int("returned", len(resources)).
			Msg("proximity query ranked")
	}

	return result, nil
}

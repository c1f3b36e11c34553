package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigem/api/internal/catalog"
)

func ptr(v float64) *float64 { return &v }

func candidate(id int64, name string, lat, lon float64) catalog.Candidate {
	return catalog.Candidate{
		ID: id, Name: name, Lat: ptr(lat), Lon: ptr(lon),
		Category: catalog.CategoryFireUnits,
	}
}

func TestRankByDistanceFiltersAndSorts(t *testing.T) {
	origin := Point{Lat: -12.05, Lon: -77.05}
	candidates := []catalog.Candidate{
		candidate(1, "far", -12.40, -77.05),  // ~39 km away
		candidate(2, "near", -12.06, -77.06), // ~1.6 km
		candidate(3, "mid", -12.09, -77.05),  // ~4.4 km
		candidate(4, "same", -12.05, -77.05), // 0 km
		{ID: 5, Name: "no-coords", Category: catalog.CategoryFireUnits},
	}

	matches := RankByDistance(origin, candidates, 5.0)

	require.Len(t, matches, 3)
	assert.Equal(t, int64(4), matches[0].Candidate.ID)
	assert.Equal(t, int64(2), matches[1].Candidate.ID)
	assert.Equal(t, int64(3), matches[2].Candidate.ID)

	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].DistanceKm, matches[i].DistanceKm)
	}
	for _, m := range matches {
		assert.LessOrEqual(t, m.DistanceKm, 5.0)
	}
}

func TestRankByDistanceSingleFixture(t *testing.T) {
	// One fire unit just across the district boundary: returned with a
	// positive distance within the 5 km radius.
	origin := Point{Lat: -12.05, Lon: -77.05}
	matches := RankByDistance(origin, []catalog.Candidate{
		candidate(7, "Compañía de Bomberos", -12.06, -77.06),
	}, 5.0)

	require.Len(t, matches, 1)
	assert.Positive(t, matches[0].DistanceKm)
	assert.LessOrEqual(t, matches[0].DistanceKm, 5.0)
}

func TestRankByDistanceTiesKeepCatalogOrder(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	// Two candidates at mirrored longitudes are equidistant from the origin.
	candidates := []catalog.Candidate{
		candidate(10, "east", 0, 0.01),
		candidate(11, "west", 0, -0.01),
	}

	matches := RankByDistance(origin, candidates, 5.0)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(10), matches[0].Candidate.ID)
	assert.Equal(t, int64(11), matches[1].Candidate.ID)
}

func TestRankByDistanceEmptyInput(t *testing.T) {
	matches := RankByDistance(Point{Lat: -12.05, Lon: -77.05}, nil, 5.0)
	assert.Empty(t, matches)
}

func TestRankByDistanceBoundaryInclusive(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	c := candidate(1, "exact", 0, 0)
	d := DistanceBetween(origin, Point{Lat: 0, Lon: 0})
	matches := RankByDistance(origin, []catalog.Candidate{c}, d)
	assert.Len(t, matches, 1)
}

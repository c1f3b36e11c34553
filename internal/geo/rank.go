package geo

import (
	"sort"

	"sigem/api/internal/catalog"
)

// Match is a catalog candidate annotated with its distance from the query
// origin.
type Match struct {
	Candidate  catalog.Candidate
	DistanceKm float64
}

// RankByDistance filters candidates to those within radiusKm of origin and
// returns them sorted by ascending distance. Candidates without a usable
// coordinate are excluded. Ties keep catalog order (stable sort). The caller
// is responsible for validating radiusKm beforehand; truncation is a
// presentation concern and is not applied here.
func RankByDistance(origin Point, candidates []catalog.Candidate, radiusKm float64) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		lat, lon, ok := c.Position()
		if !ok {
			continue
		}
		d := Distance(origin.Lat, origin.Lon, lat, lon)
		if d <= radiusKm {
			matches = append(matches, Match{Candidate: c, DistanceKm: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return matches
}

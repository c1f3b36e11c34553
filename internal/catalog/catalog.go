// Package catalog loads the static reference snapshot of response resources
// (fire units and hydrants). The snapshot lives in per-category JSON files
// that do not change during a run, so loads are cached process-wide.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Category identifies one of the fixed resource kinds in the catalog.
type Category string

const (
	CategoryFireUnits Category = "fire-units"
	CategoryHydrants  Category = "hydrants"
)

// AllCategories returns the categories a query expands to when no filter is
// given. Order matters: it is the order results are reported in.
func AllCategories() []Category {
	return []Category{CategoryFireUnits, CategoryHydrants}
}

// ParseCategory maps a request token to a known category. "all" and the empty
// string mean no filter.
func ParseCategory(raw string) ([]Category, error) {
	switch Category(raw) {
	case "", "all":
		return AllCategories(), nil
	case CategoryFireUnits:
		return []Category{CategoryFireUnits}, nil
	case CategoryHydrants:
		return []Category{CategoryHydrants}, nil
	default:
		return nil, fmt.Errorf("unknown resource category %q", raw)
	}
}

// TypeCode returns the small-integer tag stored on deployment rows.
func (c Category) TypeCode() int16 {
	if c == CategoryHydrants {
		return 2
	}
	return 1
}

// DeploymentStatus returns the initial movement status recorded for a
// resource of this category: fire units leave their station, hydrants are
// fixed assets that are merely identified.
func (c Category) DeploymentStatus() string {
	if c == CategoryHydrants {
		return "IDENTIFIED"
	}
	return "EN_ROUTE"
}

// DisplayCap is the per-category limit applied to ranked query results before
// they are returned. The full matched count is always reported alongside.
func (c Category) DisplayCap() int {
	if c == CategoryHydrants {
		return 50
	}
	return 20
}

// Candidate is one geolocated entry of the reference snapshot. The snapshot
// is read-only; coordinates may be absent for stale entries and such
// candidates are excluded by the ranking stage, not here.
type Candidate struct {
	ID       int64
	Name     string
	Lat      *float64
	Lon      *float64
	Category Category
}

// Position returns the candidate coordinate and whether it is usable.
func (c Candidate) Position() (lat, lon float64, ok bool) {
	if c.Lat == nil || c.Lon == nil {
		return 0, 0, false
	}
	return *c.Lat, *c.Lon, true
}

// fireUnitRecord mirrors the fire-unit snapshot file shape.
type fireUnitRecord struct {
	ID   int64    `json:"idCompaniaBomberos"`
	Name string   `json:"nombre"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lng"`
}

// hydrantRecord mirrors the hydrant snapshot file shape.
type hydrantRecord struct {
	ID   int64    `json:"ID"`
	Name string   `json:"nombre"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lng"`
}

var snapshotFiles = map[Category]string{
	CategoryFireUnits: "fire_units.json",
	CategoryHydrants:  "hydrants.json",
}

// Loader reads candidate snapshots from a directory of JSON files. Load
// failures degrade to an empty candidate set: the read path must stay able
// to answer "nothing nearby" even when the reference data is broken.
type Loader struct {
	dir   string
	log   zerolog.Logger
	cache *gocache.Cache
}

// NewLoader builds a Loader over the given snapshot directory.
func NewLoader(dir string, log zerolog.Logger) *Loader {
	return &Loader{
		dir:   dir,
		log:   log.With().Str("component", "catalog").Logger(),
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Load returns the candidates of a category. The first successful read per
// category is cached for the lifetime of the process.
func (l *Loader) Load(ctx context.Context, category Category) []Candidate {
	if cached, ok := l.cache.Get(string(category)); ok {
		return cached.([]Candidate)
	}

	candidates, err := l.read(category)
	if err != nil {
		l.log.Warn().Err(err).Str("category", string(category)).Msg("catalog snapshot unavailable, returning no candidates")
		return nil
	}

	l.cache.Set(string(category), candidates, gocache.NoExpiration)
	return candidates
}

// Resolve looks a candidate up by its external id. Selection ids come from
// possibly stale client-side catalog copies, so a miss is a normal outcome.
func (l *Loader) Resolve(ctx context.Context, category Category, id int64) (Candidate, bool) {
	for _, c := range l.Load(ctx, category) {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

func (l *Loader) read(category Category) ([]Candidate, error) {
	name, ok := snapshotFiles[category]
	if !ok {
		return nil, fmt.Errorf("no snapshot file for category %q", category)
	}

	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", name, err)
	}

	switch category {
	case CategoryFireUnits:
		var records []fireUnitRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing snapshot %s: %w", name, err)
		}
		candidates := make([]Candidate, 0, len(records))
		for _, rec := range records {
			candidates = append(candidates, Candidate{
				ID: rec.ID, Name: rec.Name, Lat: rec.Lat, Lon: rec.Lon,
				Category: CategoryFireUnits,
			})
		}
		return candidates, nil
	default:
		var records []hydrantRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing snapshot %s: %w", name, err)
		}
		candidates := make([]Candidate, 0, len(records))
		for _, rec := range records {
			candidates = append(candidates, Candidate{
				ID: rec.ID, Name: rec.Name, Lat: rec.Lat, Lon: rec.Lon,
				Category: CategoryHydrants,
			})
		}
		return candidates, nil
	}
}

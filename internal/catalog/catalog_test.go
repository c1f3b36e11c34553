package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fireUnitsFixture = `[
	{"idCompaniaBomberos": 1, "nombre": "Compañía Roma 2", "lat": -12.06, "lng": -77.06},
	{"idCompaniaBomberos": 2, "nombre": "Compañía Lima 1", "lat": -12.05, "lng": -77.03},
	{"idCompaniaBomberos": 3, "nombre": "Sin ubicación"}
]`

const hydrantsFixture = `[
	{"ID": 100, "nombre": "Hidrante Av. Tacna", "lat": -12.045, "lng": -77.035},
	{"ID": 101, "nombre": "Hidrante Jr. Ica", "lat": -12.048, "lng": -77.040}
]`

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fire_units.json"), []byte(fireUnitsFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hydrants.json"), []byte(hydrantsFixture), 0o644))
	return NewLoader(dir, zerolog.Nop())
}

func TestLoadFireUnits(t *testing.T) {
	loader := newTestLoader(t)

	candidates := loader.Load(context.Background(), CategoryFireUnits)

	require.Len(t, candidates, 3)
	assert.Equal(t, int64(1), candidates[0].ID)
	assert.Equal(t, "Compañía Roma 2", candidates[0].Name)
	assert.Equal(t, CategoryFireUnits, candidates[0].Category)

	_, _, ok := candidates[2].Position()
	assert.False(t, ok, "candidate without coordinates must report no position")
}

func TestLoadHydrants(t *testing.T) {
	loader := newTestLoader(t)

	candidates := loader.Load(context.Background(), CategoryHydrants)

	require.Len(t, candidates, 2)
	assert.Equal(t, int64(100), candidates[0].ID)
	assert.Equal(t, CategoryHydrants, candidates[0].Category)

	lat, lon, ok := candidates[0].Position()
	require.True(t, ok)
	assert.Equal(t, -12.045, lat)
	assert.Equal(t, -77.035, lon)
}

func TestLoadMissingSnapshotReturnsEmpty(t *testing.T) {
	loader := NewLoader(t.TempDir(), zerolog.Nop())

	candidates := loader.Load(context.Background(), CategoryFireUnits)

	assert.Empty(t, candidates)
}

func TestLoadCorruptSnapshotReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hydrants.json"), []byte("{not json"), 0o644))
	loader := NewLoader(dir, zerolog.Nop())

	assert.Empty(t, loader.Load(context.Background(), CategoryHydrants))
}

func TestLoadCachesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fire_units.json")
	require.NoError(t, os.WriteFile(path, []byte(fireUnitsFixture), 0o644))
	loader := NewLoader(dir, zerolog.Nop())

	first := loader.Load(context.Background(), CategoryFireUnits)
	require.Len(t, first, 3)

	// Rewriting the file must not change what the loader serves.
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	second := loader.Load(context.Background(), CategoryFireUnits)
	assert.Len(t, second, 3)
}

func TestResolve(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	candidate, ok := loader.Resolve(ctx, CategoryHydrants, 101)
	require.True(t, ok)
	assert.Equal(t, "Hidrante Jr. Ica", candidate.Name)

	_, ok = loader.Resolve(ctx, CategoryHydrants, 999)
	assert.False(t, ok)

	_, ok = loader.Resolve(ctx, CategoryFireUnits, 101)
	assert.False(t, ok, "ids are scoped per category")
}

func TestParseCategory(t *testing.T) {
	all, err := ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, AllCategories(), all)

	all, err = ParseCategory("all")
	require.NoError(t, err)
	assert.Equal(t, AllCategories(), all)

	one, err := ParseCategory("fire-units")
	require.NoError(t, err)
	assert.Equal(t, []Category{CategoryFireUnits}, one)

	_, err = ParseCategory("ambulances")
	assert.Error(t, err)
}

func TestCategoryConventions(t *testing.T) {
	assert.Equal(t, int16(1), CategoryFireUnits.TypeCode())
	assert.Equal(t, int16(2), CategoryHydrants.TypeCode())
	assert.Equal(t, "EN_ROUTE", CategoryFireUnits.DeploymentStatus())
	assert.Equal(t, "IDENTIFIED", CategoryHydrants.DeploymentStatus())
	assert.Equal(t, 20, CategoryFireUnits.DisplayCap())
	assert.Equal(t, 50, CategoryHydrants.DisplayCap())
}

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigem/api/internal/catalog"
	"sigem/api/internal/store"
)

type fakeDispatchStore struct {
	incident    *store.Incident
	getErr      error
	recordErr   error
	recordCalls int

	gotIncidentID  int64
	gotResources   []store.IdentifiedResource
	gotDeployments []store.Deployment
	gotAction      store.Action
}

func (f *fakeDispatchStore) GetIncident(ctx context.Context, id int64) (*store.Incident, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.incident, nil
}

func (f *fakeDispatchStore) RecordDispatch(ctx context.Context, incidentID int64, resources []store.IdentifiedResource, deployments []store.Deployment, action store.Action) error {
	f.recordCalls++
	f.gotIncidentID = incidentID
	f.gotResources = resources
	f.gotDeployments = deployments
	f.gotAction = action
	return f.recordErr
}

func dispatchCatalog() *fakeCatalog {
	return &fakeCatalog{candidates: map[catalog.Category][]catalog.Candidate{
		catalog.CategoryFireUnits: {
			testCandidate(catalog.CategoryFireUnits, 1, "Roma 2", -12.06, -77.06),
			testCandidate(catalog.CategoryFireUnits, 2, "Lima 1", -12.051, -77.051),
			{ID: 3, Name: "Sin coordenada", Category: catalog.CategoryFireUnits},
		},
		catalog.CategoryHydrants: {
			testCandidate(catalog.CategoryHydrants, 100, "Hidrante Tacna", -12.052, -77.05),
		},
	}}
}

func TestDispatchWritesResourcesDeploymentsAndAction(t *testing.T) {
	st := &fakeDispatchStore{incident: testIncident(7, fptr(-12.05), fptr(-77.05))}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	result, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 7,
		Narrative:  "se desplegaron unidades al punto",
		Selected: map[catalog.Category][]int64{
			catalog.CategoryFireUnits: {1, 2},
			catalog.CategoryHydrants:  {100},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, st.recordCalls)
	assert.Equal(t, int64(7), st.gotIncidentID)
	require.Len(t, st.gotResources, 3)
	require.Len(t, st.gotDeployments, 3)

	assert.Equal(t, "fire-units", st.gotResources[0].Category)
	assert.Equal(t, "1", st.gotResources[0].ExternalID)
	assert.Equal(t, "Roma 2", st.gotResources[0].Label)
	assert.Regexp(t, `^\d+\.\d{2} km$`, st.gotResources[0].Distance)

	assert.Equal(t, int16(1), st.gotDeployments[0].TypeCode)
	assert.Equal(t, "EN_ROUTE", st.gotDeployments[0].Status)
	assert.Equal(t, int16(2), st.gotDeployments[2].TypeCode)
	assert.Equal(t, "IDENTIFIED", st.gotDeployments[2].Status)
	assert.Equal(t, st.gotResources[0].CreatedAt, st.gotDeployments[0].DepartedAt)

	assert.Equal(t, ActionResourcesDeployed, st.gotAction.Type)
	assert.Equal(t, "se desplegaron unidades al punto", st.gotAction.Narrative)

	assert.Equal(t, 3, result.TotalWritten)
	assert.Equal(t, 2, result.PerCategory[catalog.CategoryFireUnits])
	assert.Equal(t, 1, result.PerCategory[catalog.CategoryHydrants])
	require.Len(t, result.Records, 3)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.OperationID.String())
}

func TestDispatchAppendsObservationsToNarrative(t *testing.T) {
	st := &fakeDispatchStore{incident: testIncident(7, fptr(-12.05), fptr(-77.05))}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	_, err := rec.Dispatch(context.Background(), Request{
		IncidentID:   7,
		Narrative:    "unidades en camino",
		Observations: "acceso bloqueado por la avenida principal",
		Selected:     map[catalog.Category][]int64{catalog.CategoryFireUnits: {1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "unidades en camino\n\nObservations: acceso bloqueado por la avenida principal", st.gotAction.Narrative)
}

func TestDispatchRejectsEmptySelection(t *testing.T) {
	st := &fakeDispatchStore{incident: testIncident(7, fptr(-12.05), fptr(-77.05))}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	_, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 7,
		Narrative:  "sin recursos",
		Selected:   map[catalog.Category][]int64{},
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, st.recordCalls)
}

func TestDispatchRejectsBlankNarrative(t *testing.T) {
	st := &fakeDispatchStore{incident: testIncident(7, fptr(-12.05), fptr(-77.05))}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	_, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 7,
		Narrative:  "   ",
		Selected:   map[catalog.Category][]int64{catalog.CategoryFireUnits: {1}},
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, st.recordCalls)
}

func TestDispatchIncidentNotFound(t *testing.T) {
	st := &fakeDispatchStore{getErr: fmt.Errorf("incident 99: %w", store.ErrNotFound)}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	_, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 99,
		Narrative:  "x",
		Selected:   map[catalog.Category][]int64{catalog.CategoryFireUnits: {1}},
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, st.recordCalls)
}

func TestDispatchIncidentWithoutCoordinates(t *testing.T) {
	st := &fakeDispatchStore{incident: testIncident(7, nil, nil)}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	_, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 7,
		Narrative:  "x",
		Selected:   map[catalog.Category][]int64{catalog.CategoryFireUnits: {1}},
	})

	assert.ErrorIs(t, err, ErrMissingLocation)
	assert.Zero(t, st.recordCalls)
}

func TestDispatchSkipsUnresolvableSelections(t *testing.T) {
	st := &fakeDispatchStore{incident: testIncident(7, fptr(-12.05), fptr(-77.05))}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	// 999 is not in the catalog and 3 has no coordinate; both drop out
	// without failing the dispatch.
	result, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 7,
		Narrative:  "despliegue parcial",
		Selected:   map[catalog.Category][]int64{catalog.CategoryFireUnits: {1, 3, 999}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalWritten)
	require.Len(t, st.gotResources, 1)
	assert.Equal(t, "1", st.gotResources[0].ExternalID)
	require.Len(t, result.Records, 1)
	assert.Equal(t, int64(1), result.Records[0].ExternalID)
}

func TestDispatchPersistenceFailure(t *testing.T) {
	st := &fakeDispatchStore{
		incident:  testIncident(7, fptr(-12.05), fptr(-77.05)),
		recordErr: errors.New("connection reset"),
	}
	rec := NewRecorder(st, dispatchCatalog(), zerolog.Nop())

	_, err := rec.Dispatch(context.Background(), Request{
		IncidentID: 7,
		Narrative:  "x",
		Selected:   map[catalog.Category][]int64{catalog.CategoryFireUnits: {1}},
	})

	assert.ErrorIs(t, err, ErrPersistence)
}

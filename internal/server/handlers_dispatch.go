package server

import (
	"net/http"

	"sigem/api/internal/catalog"
	"sigem/api/internal/dispatch"
)

// handleRecordDispatch godoc
// @Title Record deployed resources
// @Description Persists the selected resources, their deployment records and the action log entry for an incident as one transaction.
// @Resource Dispatch
// @Accept json
// @Produce json
// @Param request body RecordDispatchRequest true "Dispatch payload"
// @Success 201 {object} RecordDispatchResponse
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Route /v1/dispatches [post]
func (s *Server) handleRecordDispatch(w http.ResponseWriter, r *http.Request) {
	var req RecordDispatchRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	result, err := s.recorder.Dispatch(r.Context(), dispatch.Request{
		IncidentID:   req.IncidentID,
		Narrative:    req.Narrative,
		Observations: req.Observations,
		Selected: map[catalog.Category][]int64{
			catalog.CategoryFireUnits: req.Resources.FireUnits,
			catalog.CategoryHydrants:  req.Resources.Hydrants,
		},
	})
	if err != nil {
		observeDispatch(nil, "error")
		s.writeDomainError(w, err)
		return
	}

	perCategory := make(map[string]int, len(result.PerCategory))
	for category, count := range result.PerCategory {
		perCategory[string(category)] = count
	}
	observeDispatch(perCategory, "success")

	records := make([]DispatchRecordDTO, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, DispatchRecordDTO{
			Category:   string(rec.Category),
			ExternalID: rec.ExternalID,
			Name:       rec.Name,
			DistanceKm: rec.DistanceKm,
		})
	}

	s.writeJSON(w, http.StatusCreated, RecordDispatchResponse{
		OperationID:     result.OperationID.String(),
		IncidentID:      result.IncidentID,
		TotalWritten:    result.TotalWritten,
		PerCategory:     perCategory,
		Records:         records,
		ActionTimestamp: result.ActionAt,
	})
}

package mappings

import (
	"encoding/json"
	"net/http"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/store"
)

// Handler serves the user-to-user field mapping endpoints. A mapping pair is
// addressed by four query parameters on reads and deletes.
type Handler struct {
	mappings store.MappingStore
}

type pairKey struct {
	sourceUserID   string
	targetUserID   string
	sourceObjectID string
	targetObjectID string
}

func pairFromQuery(r *http.Request) (pairKey, bool) {
	q := r.URL.Query()
	p := pairKey{
		sourceUserID:   q.Get("sourceUserId"),
		targetUserID:   q.Get("targetUserId"),
		sourceObjectID: q.Get("sourceObjectId"),
		targetObjectID: q.Get("targetObjectId"),
	}
	ok := p.sourceUserID != "" && p.targetUserID != "" &&
		p.sourceObjectID != "" && p.targetObjectID != ""
	return p, ok
}

// Get returns all mapping rows of one schema pair.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	p, ok := pairFromQuery(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"sourceUserId, targetUserId, sourceObjectId and targetObjectId are required", corrID, nil))
		return
	}

	rows, err := h.mappings.Get(r.Context(), p.sourceUserID, p.targetUserID, p.sourceObjectID, p.targetObjectID)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(rows))
	for i := range rows {
		results[i] = rows[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// Set upserts one mapping row. Re-mapping an already-mapped target field
// replaces the earlier row.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var m domain.FieldMapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}
	if m.SourceUserID == "" || m.TargetUserID == "" || m.SourceObjectID == "" || m.TargetObjectID == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"sourceUserId, targetUserId, sourceObjectId and targetObjectId are required", corrID, nil))
		return
	}
	if m.SourceFieldAPIName == "" || m.TargetFieldAPIName == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"sourceFieldApiName and targetFieldApiName are required", corrID, nil))
		return
	}

	if err := h.mappings.Set(r.Context(), m); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, m)
}

// DeletePair removes every mapping row of one schema pair.
func (h *Handler) DeletePair(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	p, ok := pairFromQuery(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"sourceUserId, targetUserId, sourceObjectId and targetObjectId are required", corrID, nil))
		return
	}

	if err := h.mappings.DeletePair(r.Context(), p.sourceUserID, p.targetUserID, p.sourceObjectID, p.targetObjectID); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status reports mapping completeness for one schema pair.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	p, ok := pairFromQuery(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"sourceUserId, targetUserId, sourceObjectId and targetObjectId are required", corrID, nil))
		return
	}

	status, err := h.mappings.Status(r.Context(), p.sourceUserID, p.targetUserID, p.sourceObjectID, p.targetObjectID)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, status)
}

package fields

import (
	"encoding/json"
	"net/http"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/store"
)

// Handler serves the field definition endpoints nested under object types.
type Handler struct {
	fields store.FieldStore
}

// List returns the ordered field list of an object type.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	fields, err := h.fields.List(r.Context(), r.PathValue("objectType"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(fields))
	for i := range fields {
		results[i] = fields[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// Create adds a field definition to an object type.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var f domain.ObjectField
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}
	if f.Name == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"Field name is required", corrID, nil))
		return
	}

	created, err := h.fields.Create(r.Context(), r.PathValue("objectType"), &f)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Get retrieves a single field definition.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.fields.Get(r.Context(), r.PathValue("fieldId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, f)
}

// Update modifies a field definition. API name and data type are immutable.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var patch domain.ObjectField
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}

	updated, err := h.fields.Update(r.Context(), r.PathValue("fieldId"), &patch)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes a field definition.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.fields.Delete(r.Context(), r.PathValue("fieldId")); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package objecttypes

import (
	"encoding/json"
	"net/http"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/store"
)

// Handler serves the object type endpoints.
type Handler struct {
	types   store.ObjectTypeStore
	publish store.PublishStore
}

// List returns all active object types.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.List(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(types))
	for i := range types {
		results[i] = types[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// Create adds a new object type.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var t domain.ObjectType
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}
	if t.Name == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"Object type name is required", corrID, nil))
		return
	}

	created, err := h.types.Create(r.Context(), &t)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Get retrieves one object type by ID or API name.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.types.Get(r.Context(), r.PathValue("objectType"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

// Update partially modifies an object type.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var patch domain.ObjectType
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}

	updated, err := h.types.Update(r.Context(), r.PathValue("objectType"), &patch)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Archive soft-deletes an object type; its records stay reachable by ID.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.types.Archive(r.Context(), r.PathValue("objectType")); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete hard-deletes an object type that nothing references anymore.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.types.Delete(r.Context(), r.PathValue("objectType")); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import clones another user's object type schema into a new type.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	imported, err := h.publish.ImportObjectType(r.Context(), r.PathValue("objectType"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, imported)
}

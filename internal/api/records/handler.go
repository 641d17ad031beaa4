package records

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/lookup"
	"github.com/rgould/fieldkit/internal/schema"
	"github.com/rgould/fieldkit/internal/store"
)

// Handler serves the record endpoints. Writes go through the compiled
// validator for the record's object type before they reach the store.
type Handler struct {
	records    store.RecordStore
	types      store.ObjectTypeStore
	validators *schema.Cache
	resolver   *lookup.Resolver
}

type valuesRequest struct {
	Values map[string]string `json:"values"`
}

type resolveRequest struct {
	IDs []string `json:"ids"`
}

type resolveResponse struct {
	Values map[string]string `json:"values"`
}

// validate runs input through the object type's compiled validator and
// returns the normalized storage strings.
func (h *Handler) validate(r *http.Request, typeID string, input map[string]string) (map[string]string, error) {
	validator, err := h.validators.Get(r.Context(), typeID)
	if err != nil {
		return nil, err
	}
	typed, verrs := validator.Validate(input)
	if len(verrs) > 0 {
		return nil, verrs
	}
	out := make(map[string]string, len(typed))
	for name, v := range typed {
		out[name] = v.Raw()
	}
	return out, nil
}

// List returns a page of records of one object type.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := domain.ListOpts{After: r.URL.Query().Get("after")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			corrID := api.CorrelationID(r.Context())
			api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
				"limit must be a number", corrID, nil))
			return
		}
		opts.Limit = n
	}

	page, err := h.records.List(r.Context(), r.PathValue("objectType"), opts)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(page.Results))
	for i := range page.Results {
		results[i] = page.Results[i]
	}
	resp := api.CollectionResponse{Results: results}
	if page.HasMore {
		resp.Paging = &api.Paging{Next: &api.PagingNext{After: page.After}}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// Create validates and stores a new record. Validation failures return the
// full per-field error list, never just the first.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req valuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}

	t, err := h.types.Get(r.Context(), r.PathValue("objectType"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	values, err := h.validate(r, t.ID, req.Values)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	created, err := h.records.Create(r.Context(), t.ID, values)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Get retrieves one record with its values.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Get(r.Context(), r.PathValue("recordId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// SetValues validates and writes field values onto an existing record as one
// atomic batch.
func (h *Handler) SetValues(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req valuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}

	rec, err := h.records.Get(r.Context(), r.PathValue("recordId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	// Validate the patch over the stored values so the whole record is
	// checked: required fields already set stay satisfied without being
	// re-sent, and defaults never overwrite stored values.
	merged := make(map[string]string, len(rec.Values)+len(req.Values))
	for name, v := range rec.Values {
		merged[name] = v
	}
	for name, v := range req.Values {
		merged[name] = v
	}

	values, err := h.validate(r, rec.ObjectTypeID, merged)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	if err := h.records.SetValues(r.Context(), rec.ID, values); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	updated, err := h.records.Get(r.Context(), rec.ID)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes a record, its values and its shares.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), r.PathValue("recordId")); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resolve maps record IDs of one object type to display strings through the
// batching resolver.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}

	t, err := h.types.Get(r.Context(), r.PathValue("objectType"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	values := h.resolver.Resolve(r.Context(), t.ID, req.IDs)
	api.WriteJSON(w, http.StatusOK, resolveResponse{Values: values})
}

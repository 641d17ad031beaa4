package publish

import (
	"encoding/json"
	"net/http"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/store"
)

// Handler serves the application publishing endpoints.
type Handler struct {
	publish store.PublishStore
}

type publishRequest struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	CreatedBy      string              `json:"createdBy"`
	ObjectTypeIDs  []string            `json:"objectTypeIds"`
	ExcludedFields map[string][]string `json:"excludedFields"`
}

// Publish snapshots selected object types into a published application.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}
	if req.Name == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"Application name is required", corrID, nil))
		return
	}
	if len(req.ObjectTypeIDs) == 0 {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"At least one object type is required", corrID, nil))
		return
	}

	app, err := h.publish.Publish(r.Context(), store.PublishParams{
		Name:           req.Name,
		Description:    req.Description,
		CreatedBy:      req.CreatedBy,
		ObjectTypeIDs:  req.ObjectTypeIDs,
		ExcludedFields: req.ExcludedFields,
	})
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, app)
}

// List returns all published applications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.publish.List(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(apps))
	for i := range apps {
		results[i] = apps[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// Get retrieves one published application with its snapshot.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.publish.Get(r.Context(), r.PathValue("appId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, app)
}

package shares

import (
	"encoding/json"
	"net/http"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/sharing"
	"github.com/rgould/fieldkit/internal/store"
)

// Handler serves the record sharing endpoints.
type Handler struct {
	shares store.ShareStore
	engine *sharing.Engine
}

// Create grants a share of one record to another user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var share domain.RecordShare
	if err := json.NewDecoder(r.Body).Decode(&share); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID, nil))
		return
	}
	if share.RecordID == "" || share.SharedByUserID == "" || share.SharedWithUserID == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"recordId, sharedByUserId and sharedWithUserId are required", corrID, nil))
		return
	}

	created, err := h.shares.Create(r.Context(), &share)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Get retrieves one share with its field visibility rows.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	share, err := h.shares.Get(r.Context(), r.PathValue("shareId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, share)
}

// ListWith returns all shares granted to one user.
func (h *Handler) ListWith(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	userID := r.URL.Query().Get("sharedWithUserId")
	if userID == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"sharedWithUserId is required", corrID, nil))
		return
	}

	shares, err := h.shares.ListWith(r.Context(), userID)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(shares))
	for i := range shares {
		results[i] = shares[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// Revoke deletes a share and the sharing pair's field mappings.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.shares.Revoke(r.Context(), r.PathValue("shareId")); err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// View returns the recipient's translated view of a shared record.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	targetObjectID := r.URL.Query().Get("targetObjectId")
	if targetObjectID == "" {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			"targetObjectId is required", corrID, nil))
		return
	}

	view, err := h.engine.View(r.Context(), r.PathValue("shareId"), targetObjectID)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, view)
}

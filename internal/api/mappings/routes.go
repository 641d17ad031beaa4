package mappings

import (
	"net/http"

	"github.com/rgould/fieldkit/internal/store"
)

// RegisterRoutes registers all field mapping endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{mappings: s.Mappings}

	mux.HandleFunc("GET /v1/mappings", h.Get)
	mux.HandleFunc("PUT /v1/mappings", h.Set)
	mux.HandleFunc("DELETE /v1/mappings", h.DeletePair)
	mux.HandleFunc("GET /v1/mappings/status", h.Status)
}

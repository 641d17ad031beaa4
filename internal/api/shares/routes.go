package shares

import (
	"net/http"

	"github.com/rgould/fieldkit/internal/sharing"
	"github.com/rgould/fieldkit/internal/store"
)

// RegisterRoutes registers all record sharing endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{
		shares: s.Shares,
		engine: sharing.NewEngine(s.Records, s.Shares, s.Mappings),
	}

	mux.HandleFunc("POST /v1/shares", h.Create)
	mux.HandleFunc("GET /v1/shares", h.ListWith)
	mux.HandleFunc("GET /v1/shares/{shareId}", h.Get)
	mux.HandleFunc("DELETE /v1/shares/{shareId}", h.Revoke)
	mux.HandleFunc("GET /v1/shares/{shareId}/view", h.View)
}

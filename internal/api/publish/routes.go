package publish

import (
	"net/http"

	"github.com/rgould/fieldkit/internal/store"
)

// RegisterRoutes registers all publishing endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{publish: s.Publish}

	mux.HandleFunc("POST /v1/publish", h.Publish)
	mux.HandleFunc("GET /v1/publish", h.List)
	mux.HandleFunc("GET /v1/publish/{appId}", h.Get)
}

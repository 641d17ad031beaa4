package objecttypes

import (
	"net/http"

	"github.com/rgould/fieldkit/internal/store"
)

// RegisterRoutes registers all object type endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{types: s.Types, publish: s.Publish}

	mux.HandleFunc("GET /v1/object-types", h.List)
	mux.HandleFunc("POST /v1/object-types", h.Create)
	mux.HandleFunc("GET /v1/object-types/{objectType}", h.Get)
	mux.HandleFunc("PATCH /v1/object-types/{objectType}", h.Update)
	mux.HandleFunc("POST /v1/object-types/{objectType}/archive", h.Archive)
	mux.HandleFunc("DELETE /v1/object-types/{objectType}", h.Delete)
	mux.HandleFunc("POST /v1/object-types/{objectType}/import", h.Import)
}

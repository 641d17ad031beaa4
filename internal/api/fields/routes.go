package fields

import (
	"net/http"

	"github.com/rgould/fieldkit/internal/store"
)

// RegisterRoutes registers all field definition endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{fields: s.Fields}

	mux.HandleFunc("GET /v1/object-types/{objectType}/fields", h.List)
	mux.HandleFunc("POST /v1/object-types/{objectType}/fields", h.Create)
	mux.HandleFunc("GET /v1/object-types/{objectType}/fields/{fieldId}", h.Get)
	mux.HandleFunc("PATCH /v1/object-types/{objectType}/fields/{fieldId}", h.Update)
	mux.HandleFunc("DELETE /v1/object-types/{objectType}/fields/{fieldId}", h.Delete)
}

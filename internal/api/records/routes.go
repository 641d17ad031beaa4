package records

import (
	"net/http"

	"github.com/rgould/fieldkit/internal/lookup"
	"github.com/rgould/fieldkit/internal/schema"
	"github.com/rgould/fieldkit/internal/store"
)

// RegisterRoutes registers all record endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store, validators *schema.Cache, resolver *lookup.Resolver) {
	h := &Handler{
		records:    s.Records,
		types:      s.Types,
		validators: validators,
		resolver:   resolver,
	}

	mux.HandleFunc("GET /v1/records/{objectType}", h.List)
	mux.HandleFunc("POST /v1/records/{objectType}", h.Create)
	mux.HandleFunc("POST /v1/records/{objectType}/resolve", h.Resolve)
	mux.HandleFunc("GET /v1/records/{objectType}/{recordId}", h.Get)
	mux.HandleFunc("PATCH /v1/records/{objectType}/{recordId}", h.SetValues)
	mux.HandleFunc("DELETE /v1/records/{objectType}/{recordId}", h.Delete)
}

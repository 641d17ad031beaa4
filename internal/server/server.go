// Package server wires the stores, caches and HTTP routes into one handler.
// It exists so the binary and in-process tests build the exact same surface.
package server

import (
	"fmt"
	"net/http"

	"github.com/rgould/fieldkit/internal/api"
	"github.com/rgould/fieldkit/internal/api/fields"
	"github.com/rgould/fieldkit/internal/api/mappings"
	"github.com/rgould/fieldkit/internal/api/objecttypes"
	"github.com/rgould/fieldkit/internal/api/publish"
	"github.com/rgould/fieldkit/internal/api/records"
	"github.com/rgould/fieldkit/internal/api/shares"
	"github.com/rgould/fieldkit/internal/lookup"
	"github.com/rgould/fieldkit/internal/schema"
	"github.com/rgould/fieldkit/internal/store"
)

// New builds the full HTTP handler over s: every route group, the validator
// cache and the lookup resolver subscribed to s.Bus, and the standard
// middleware chain. authToken empty disables authentication.
func New(s *store.Store, authToken string) http.Handler {
	validators := schema.NewCache(s.Fields.List, s.Bus)
	resolver := lookup.NewResolver(s.Records.ResolveDisplayValues, s.Bus)

	mux := http.NewServeMux()

	objecttypes.RegisterRoutes(mux, s)
	fields.RegisterRoutes(mux, s)
	records.RegisterRoutes(mux, s, validators, resolver)
	mappings.RegisterRoutes(mux, s)
	shares.RegisterRoutes(mux, s)
	publish.RegisterRoutes(mux, s)

	// Catch-all: unknown routes return the standard error envelope.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		corrID := api.CorrelationID(r.Context())
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(
			fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path),
			corrID,
		))
	})

	return api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.Auth(authToken),
		api.JSONContentType(),
		api.Logging(),
	)
}

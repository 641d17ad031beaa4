// Package lookup resolves record references to display strings, batching and
// coalescing concurrent requests so each missing value hits the store once.
package lookup

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rgould/fieldkit/internal/events"
)

// Source fetches display values for record IDs of one object type. IDs with
// no matching record are omitted from the result.
type Source func(ctx context.Context, objectTypeID string, ids []string) (map[string]string, error)

// maxFlightRounds bounds how often a caller retries when the flight it
// joined was fetching a different ID set than its own.
const maxFlightRounds = 3

// Resolver caches resolved display values per object type and coalesces
// concurrent fetches of the same type into one store round trip. Values for
// a type are dropped whenever that type's schema or records change.
type Resolver struct {
	src   Source
	group singleflight.Group

	mu    sync.Mutex
	cache map[string]map[string]string
}

// NewResolver creates a Resolver fed by src. When bus is non-nil the
// resolver drops a type's cached values on both structural and record value
// changes to that type.
func NewResolver(src Source, bus *events.Bus) *Resolver {
	r := &Resolver{
		src:   src,
		cache: make(map[string]map[string]string),
	}
	if bus != nil {
		bus.SubscribeSchema(func(e events.SchemaChanged) {
			r.Invalidate(e.ObjectTypeID)
		})
		bus.SubscribeRecords(func(e events.RecordsChanged) {
			r.Invalidate(e.ObjectTypeID)
		})
	}
	return r
}

// cached returns the display values already known for the given IDs and the
// IDs still missing.
func (r *Resolver) cached(objectTypeID string, ids []string) (map[string]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make(map[string]string, len(ids))
	var missing []string
	values := r.cache[objectTypeID]
	for _, id := range ids {
		if v, ok := values[id]; ok {
			found[id] = v
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

func (r *Resolver) commit(objectTypeID string, values map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.cache[objectTypeID]
	if entry == nil {
		entry = make(map[string]string, len(values))
		r.cache[objectTypeID] = entry
	}
	for id, v := range values {
		entry[id] = v
	}
}

// Resolve maps record IDs of one object type to display strings. It never
// fails: every ID gets an entry, and an ID the store cannot resolve — or
// whose fetch errors — maps to itself so callers always have something to
// show. Concurrent calls for the same type share one store fetch; callers
// that join an in-flight fetch read their values from the cache it fills.
func (r *Resolver) Resolve(ctx context.Context, objectTypeID string, ids []string) map[string]string {
	result := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return result
	}

	found, missing := r.cached(objectTypeID, ids)
	for id, v := range found {
		result[id] = v
	}

	for round := 0; len(missing) > 0 && round < maxFlightRounds; round++ {
		batch := missing
		_, err, shared := r.group.Do(objectTypeID, func() (any, error) {
			// The fetch outlives the first caller on purpose: a shared
			// flight must still fill the cache when the caller that
			// started it goes away.
			fetchCtx := context.WithoutCancel(ctx)
			values, err := r.src(fetchCtx, objectTypeID, batch)
			if err != nil {
				return nil, err
			}
			r.commit(objectTypeID, values)
			return nil, nil
		})
		// A failed fetch is absorbed here: nothing was committed, so the
		// affected IDs take the raw-id fallback below and the next call
		// retries the store.
		if err != nil {
			break
		}

		found, missing = r.cached(objectTypeID, missing)
		for id, v := range found {
			result[id] = v
		}

		// An unshared flight fetched exactly our batch, so anything still
		// missing does not exist in the store. Retrying cannot help.
		if !shared {
			break
		}
	}

	// Whatever is still unresolved falls back to the raw identifier.
	for _, id := range missing {
		result[id] = id
	}
	return result
}

// Invalidate drops every cached display value of one object type.
func (r *Resolver) Invalidate(objectTypeID string) {
	r.mu.Lock()
	delete(r.cache, objectTypeID)
	r.mu.Unlock()
}

package schema

import (
	"context"
	"sync"

	"github.com/rgould/fieldkit/internal/domain"
	"github.com/rgould/fieldkit/internal/events"
)

// FieldSource fetches the ordered field list of one object type.
type FieldSource func(ctx context.Context, objectTypeID string) ([]domain.ObjectField, error)

// Cache holds compiled validators per object type. A SchemaChanged event
// for a type drops its entry, so the next Get recompiles from a fresh field
// list; stale validators are never served after a structural change.
type Cache struct {
	src FieldSource

	mu         sync.Mutex
	validators map[string]*Validator
	gens       map[string]uint64
}

// NewCache creates a Cache fed by src. When bus is non-nil the cache
// subscribes to schema change events for invalidation.
func NewCache(src FieldSource, bus *events.Bus) *Cache {
	c := &Cache{
		src:        src,
		validators: make(map[string]*Validator),
		gens:       make(map[string]uint64),
	}
	if bus != nil {
		bus.SubscribeSchema(func(e events.SchemaChanged) {
			c.Invalidate(e.ObjectTypeID)
		})
	}
	return c
}

// Get returns the compiled validator for an object type, compiling it on
// first use.
func (c *Cache) Get(ctx context.Context, objectTypeID string) (*Validator, error) {
	c.mu.Lock()
	if v, ok := c.validators[objectTypeID]; ok {
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gens[objectTypeID]
	c.mu.Unlock()

	fields, err := c.src(ctx, objectTypeID)
	if err != nil {
		return nil, err
	}
	v := Compile(fields)

	// Store only if no invalidation landed while we were compiling; a
	// validator built from pre-change fields must not shadow the change.
	c.mu.Lock()
	if c.gens[objectTypeID] == gen {
		c.validators[objectTypeID] = v
	}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops the cached validator for one object type.
func (c *Cache) Invalidate(objectTypeID string) {
	c.mu.Lock()
	delete(c.validators, objectTypeID)
	c.gens[objectTypeID]++
	c.mu.Unlock()
}

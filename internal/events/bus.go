// Package events carries typed change notifications between the stores and
// their cached consumers.
package events

import "sync"

// SchemaChanged announces a structural change (field create/update/delete,
// type import) to one object type. Consumers holding cached field lists or
// compiled validators for that type must re-fetch before next use.
type SchemaChanged struct {
	ObjectTypeID string
}

// RecordsChanged announces that record values of one object type changed.
// Display-value caches keyed by that type are stale after this.
type RecordsChanged struct {
	ObjectTypeID string
}

// Bus is a process-wide, synchronous fan-out of change events. The zero
// value is unusable; use NewBus. Safe for concurrent use.
type Bus struct {
	mu          sync.RWMutex
	schemaSubs  []func(SchemaChanged)
	recordsSubs []func(RecordsChanged)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeSchema registers fn for structural change events. Handlers run on
// the publisher's goroutine and must not block.
func (b *Bus) SubscribeSchema(fn func(SchemaChanged)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schemaSubs = append(b.schemaSubs, fn)
}

// SubscribeRecords registers fn for record value change events.
func (b *Bus) SubscribeRecords(fn func(RecordsChanged)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recordsSubs = append(b.recordsSubs, fn)
}

// PublishSchema delivers e to every schema subscriber in subscription order.
func (b *Bus) PublishSchema(e SchemaChanged) {
	b.mu.RLock()
	subs := b.schemaSubs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}

// PublishRecords delivers e to every records subscriber in subscription
// order.
func (b *Bus) PublishRecords(e RecordsChanged) {
	b.mu.RLock()
	subs := b.recordsSubs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}

package events_test

import (
	"sync"
	"testing"

	"github.com/rgould/fieldkit/internal/events"
)

func TestBus_SchemaPublishReachesAllSubscribers(t *testing.T) {
	bus := events.NewBus()

	var got []string
	bus.SubscribeSchema(func(e events.SchemaChanged) {
		got = append(got, "a:"+e.ObjectTypeID)
	})
	bus.SubscribeSchema(func(e events.SchemaChanged) {
		got = append(got, "b:"+e.ObjectTypeID)
	})

	bus.PublishSchema(events.SchemaChanged{ObjectTypeID: "t-1"})

	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0] != "a:t-1" || got[1] != "b:t-1" {
		t.Errorf("got = %v, want [a:t-1 b:t-1]", got)
	}
}

func TestBus_RecordsSubscribersAreSeparate(t *testing.T) {
	bus := events.NewBus()

	schemaCalls, recordCalls := 0, 0
	bus.SubscribeSchema(func(events.SchemaChanged) { schemaCalls++ })
	bus.SubscribeRecords(func(events.RecordsChanged) { recordCalls++ })

	bus.PublishRecords(events.RecordsChanged{ObjectTypeID: "t-1"})

	if schemaCalls != 0 {
		t.Errorf("schemaCalls = %d, want 0", schemaCalls)
	}
	if recordCalls != 1 {
		t.Errorf("recordCalls = %d, want 1", recordCalls)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := events.NewBus()
	// Must not panic.
	bus.PublishSchema(events.SchemaChanged{ObjectTypeID: "t-1"})
	bus.PublishRecords(events.RecordsChanged{ObjectTypeID: "t-1"})
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := events.NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeSchema(func(events.SchemaChanged) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.PublishSchema(events.SchemaChanged{ObjectTypeID: "t-1"})
		}()
	}
	wg.Wait()

	if count != 20 {
		t.Errorf("count = %d, want 20", count)
	}
}

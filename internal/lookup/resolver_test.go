package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rgould/fieldkit/internal/events"
)

func staticSource(values map[string]string, calls *atomic.Int64) Source {
	return func(ctx context.Context, objectTypeID string, ids []string) (map[string]string, error) {
		if calls != nil {
			calls.Add(1)
		}
		result := make(map[string]string)
		for _, id := range ids {
			if v, ok := values[id]; ok {
				result[id] = v
			}
		}
		return result, nil
	}
}

func TestResolveCachesAcrossCalls(t *testing.T) {
	var calls atomic.Int64
	r := NewResolver(staticSource(map[string]string{"1": "Acme", "2": "Globex"}, &calls), nil)
	ctx := context.Background()

	got := r.Resolve(ctx, "t-1", []string{"1", "2"})
	if got["1"] != "Acme" || got["2"] != "Globex" {
		t.Fatalf("unexpected values: %v", got)
	}
	if calls.Load() != 1 {
		t.Fatalf("first resolve made %d source calls, want 1", calls.Load())
	}

	// Second call is served entirely from cache.
	r.Resolve(ctx, "t-1", []string{"1", "2"})
	if calls.Load() != 1 {
		t.Errorf("cached resolve hit the source: %d calls", calls.Load())
	}
}

func TestResolveUnknownIDFallsBackToRawValue(t *testing.T) {
	r := NewResolver(staticSource(map[string]string{"1": "Acme"}, nil), nil)

	got := r.Resolve(context.Background(), "t-1", []string{"1", "404"})
	if got["404"] != "404" {
		t.Errorf("missing id resolved to %q, want the raw id", got["404"])
	}
}

func TestResolveAbsorbsSourceFailure(t *testing.T) {
	var calls atomic.Int64
	src := func(ctx context.Context, objectTypeID string, ids []string) (map[string]string, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("backend down")
		}
		return map[string]string{"1": "Acme"}, nil
	}
	r := NewResolver(src, nil)
	ctx := context.Background()

	// The failed fetch degrades to raw identifiers, never an error.
	got := r.Resolve(ctx, "t-1", []string{"1", "2"})
	if got["1"] != "1" || got["2"] != "2" {
		t.Fatalf("got %v, want every id falling back to itself", got)
	}

	// The failure is not cached: the next call hits the store again.
	got = r.Resolve(ctx, "t-1", []string{"1"})
	if got["1"] != "Acme" {
		t.Errorf("got %q after recovery, want Acme", got["1"])
	}
	if calls.Load() != 2 {
		t.Errorf("source called %d times, want 2", calls.Load())
	}
}

func TestResolveCoalescesConcurrentCalls(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	src := func(ctx context.Context, objectTypeID string, ids []string) (map[string]string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		result := make(map[string]string, len(ids))
		for _, id := range ids {
			result[id] = "name-" + id
		}
		return result, nil
	}
	r := NewResolver(src, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]map[string]string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(ctx, "t-1", []string{"7"})
		}(i)
	}

	<-started
	// All ten callers want the same value while the first fetch is running.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range results {
		if results[i]["7"] != "name-7" {
			t.Errorf("caller %d got %v", i, results[i])
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("source called %d times for one coalesced value, want 1", n)
	}
}

func TestResolveCommitsWhenCallerGone(t *testing.T) {
	var calls atomic.Int64
	fetching := make(chan struct{})
	release := make(chan struct{})

	src := func(ctx context.Context, objectTypeID string, ids []string) (map[string]string, error) {
		calls.Add(1)
		close(fetching)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return map[string]string{"1": "Survivor"}, nil
	}
	r := NewResolver(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Resolve(ctx, "t-1", []string{"1"})
	}()

	<-fetching
	// The caller abandons the request mid-flight.
	cancel()
	close(release)
	<-done

	got := r.Resolve(context.Background(), "t-1", []string{"1"})
	if got["1"] != "Survivor" {
		t.Errorf("got %q, want Survivor", got["1"])
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("source called %d times, want 1: abandoned fetch should still fill the cache", n)
	}
}

func TestInvalidateOnBusEvents(t *testing.T) {
	var calls atomic.Int64
	bus := events.NewBus()
	r := NewResolver(staticSource(map[string]string{"1": "Acme"}, &calls), bus)
	ctx := context.Background()

	r.Resolve(ctx, "t-1", []string{"1"})

	bus.PublishRecords(events.RecordsChanged{ObjectTypeID: "t-1"})
	r.Resolve(ctx, "t-1", []string{"1"})
	if calls.Load() != 2 {
		t.Errorf("records change did not invalidate: %d calls", calls.Load())
	}

	bus.PublishSchema(events.SchemaChanged{ObjectTypeID: "t-1"})
	r.Resolve(ctx, "t-1", []string{"1"})
	if calls.Load() != 3 {
		t.Errorf("schema change did not invalidate: %d calls", calls.Load())
	}

	// Events for other types leave the cache alone.
	bus.PublishRecords(events.RecordsChanged{ObjectTypeID: "t-2"})
	r.Resolve(ctx, "t-1", []string{"1"})
	if calls.Load() != 3 {
		t.Errorf("unrelated event invalidated the cache: %d calls", calls.Load())
	}
}

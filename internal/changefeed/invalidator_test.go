package changefeed

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	slugs []string
	alls  int
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slugs = append(r.slugs, slug)
	return nil
}

func (r *recordingInvalidator) InvalidateAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alls++
	return nil
}

func (r *recordingInvalidator) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.slugs...), r.alls
}

func TestCatalogInvalidationReactsToCatalogTables(t *testing.T) {
	hub := NewHub(nil)
	inv := &recordingInvalidator{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go RunCatalogInvalidation(ctx, hub, inv, nil)

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("invalidator never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(Event{Table: "services", Action: ActionUpdate, CategorySlug: "nails"})
	hub.Publish(Event{Table: "service_categories", Action: ActionDelete})
	hub.Publish(Event{Table: "appointments", Action: ActionInsert}) // ignored

	deadline = time.Now().Add(2 * time.Second)
	for {
		slugs, alls := inv.snapshot()
		if len(slugs) == 1 && slugs[0] == "nails" && alls == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("unexpected invalidations: slugs=%v alls=%d", slugs, alls)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

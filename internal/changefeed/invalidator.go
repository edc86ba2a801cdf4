package changefeed

import (
	"context"

	"github.com/serenatasalon/booking-api/pkg/logging"
)

// CatalogInvalidator is the slice of the catalog cache the feed needs.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, slug string) error
	InvalidateAll(ctx context.Context) error
}

// catalog tables whose mutations must drop cached price lists
var catalogTables = map[string]struct{}{
	"service_categories": {},
	"services":           {},
	"service_addons":     {},
}

// RunCatalogInvalidation subscribes to the hub and drops catalog cache
// entries when catalog rows mutate. Blocks until ctx is cancelled.
// Redundant invalidations are harmless, so at-least-once delivery needs no
// dedup here.
func RunCatalogInvalidation(ctx context.Context, hub *Hub, cache CatalogInvalidator, logger *logging.Logger) {
	if logger == nil {
		logger = logging.Default()
	}
	events, cancel := hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if _, ok := catalogTables[evt.Table]; !ok {
				continue
			}
			var err error
			if evt.CategorySlug != "" {
				err = cache.Invalidate(ctx, evt.CategorySlug)
			} else {
				err = cache.InvalidateAll(ctx)
			}
			if err != nil {
				logger.Warn("catalog cache invalidation failed",
					"error", err, "table", evt.Table, "slug", evt.CategorySlug)
			}
		}
	}
}

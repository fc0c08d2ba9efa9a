package hub

import (
	"context"
	"time"

	"github.com/meltano/hub-api/pkg/async"
	"github.com/meltano/hub-api/pkg/compatibility"
	"github.com/meltano/hub-api/pkg/storage"
)

// WarmDetailsCache assembles and caches the detail document of every
// variant ahead of traffic. Returns the errors of documents that could
// not be assembled.
func (h *Hub) WarmDetailsCache(ctx context.Context, workers int) []error {
	if workers < 1 {
		workers = 4
	}

	rows, err := h.store.IndexRows(ctx, nil)
	if err != nil {
		return []error{err}
	}

	return async.Batch(ctx, rows, workers, "details cache warmup", time.Minute,
		func(ctx context.Context, row storage.IndexRow) error {
			_, err := h.PluginDetails(ctx, row.PluginType, row.PluginName, row.VariantName, compatibility.Latest)
			return err
		})
}

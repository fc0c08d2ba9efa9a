// Package async runs the catalog's background work safely.
//
// # Overview
//
// Goroutines launched here get panic recovery, a deadline, and context
// cancellation. Errors are logged or collected, never allowed to crash
// the process.
//
// # Key Functions
//
// SafeGo: fire-and-forget background task
//
//	async.SafeGo(ctx, 30*time.Second, "catalog gauges", func(ctx context.Context) error {
//		return publishGauges(ctx)
//	})
//
// Batch: run one task per item on a bounded set of workers
//
//	errs := async.Batch(ctx, variantIDs, 4, "details cache warmup", time.Minute,
//		func(ctx context.Context, id string) error {
//			return warm(ctx, id)
//		})
//
// # Related Packages
//
//   - pkg/hub: uses Batch to warm the details cache
//   - pkg/api: uses SafeGo to publish catalog gauges
package async

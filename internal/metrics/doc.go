// Package metrics provides in-process metrics for the download-links service.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Invocation counts per status code and outcome
//   - Invocation latency with percentiles (P50, P95, P99)
//   - Resolver call counts, failures and latency
//   - The current state of the resolver circuit breaker
//
// The collector runs in a dedicated goroutine. Emit never blocks the request
// path; events are dropped when the buffer is full.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventInvocationCompleted,
//		Outcome:    "ok",
//		StatusCode: 200,
//		Duration:   150 * time.Millisecond,
//	})
//
//	snapshot := collector.Snapshot()
//
// Storage is guarded by sync.RWMutex, and queued events are drained on
// shutdown.
package metrics

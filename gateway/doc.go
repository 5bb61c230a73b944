// Package gateway assembles the full request pipeline: response cache,
// admission control, the bounded provider call, failure classification,
// and telemetry.
//
// Process handles one request end to end. The cache is consulted before
// admission so that a cache hit never consumes rate-limit budget. Misses
// pass through the admission controller, then reach the provider through
// a deduplicated, bulkhead-bounded, breaker-guarded, retried call with a
// hard per-attempt timeout. Failures are classified and the recommended
// recovery (fallback provider, stale cache serve) is applied before the
// request is reported as failed.
//
// Basic usage:
//
//	gw, err := gateway.New(cfg, prov, store.NewMemory())
//	if err != nil {
//		log.Fatal(err)
//	}
//	out := gw.Process(ctx, id, "summarize", map[string]any{"patientId": "p-1"})
//	switch out.Status {
//	case gateway.StatusSuccess:
//		use(out.Data)
//	case gateway.StatusRejected:
//		wait(out.RetryAfterSeconds)
//	case gateway.StatusFailed:
//		show(out.Failure.UserMessage)
//	}
package gateway

// Package health reports whether a memo is earning its keep.
//
// A MemoChecker reads a memo's statistics and grades them: a memo that
// mostly misses after warming up is degraded, one whose computations keep
// failing is unhealthy.
//
//	checker := health.NewMemoChecker("square", m, health.MemoCheckerConfig{
//	    MinSamples:  100,
//	    MinHitRatio: 0.5,
//	})
//	result := checker.Check(ctx)
//	if result.Status != health.StatusHealthy {
//	    log.Printf("square memo: %s", result.Message)
//	}
package health

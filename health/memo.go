package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/toolmemo/memo"
)

// StatsSource is anything that reports memo statistics. *memo.Memo,
// *memo.Synchronized and the typed wrappers all satisfy it.
type StatsSource interface {
	Stats() memo.Stats
}

// MemoCheckerConfig configures a MemoChecker.
type MemoCheckerConfig struct {
	// MinSamples is the number of lookups needed before ratios are judged.
	// Default: 100
	MinSamples uint64

	// MinHitRatio below which the memo is degraded. Zero disables the check.
	MinHitRatio float64

	// MaxFailureRatio at or above which the memo is unhealthy.
	// Default: 0.5
	MaxFailureRatio float64
}

// MemoChecker grades a memo by its hit and failure ratios.
type MemoChecker struct {
	name   string
	source StatsSource
	config MemoCheckerConfig
}

// NewMemoChecker creates a checker named name over source.
func NewMemoChecker(name string, source StatsSource, config MemoCheckerConfig) *MemoChecker {
	if config.MinSamples == 0 {
		config.MinSamples = 100
	}
	if config.MinHitRatio < 0 || config.MinHitRatio > 1 {
		config.MinHitRatio = 0
	}
	if config.MaxFailureRatio <= 0 || config.MaxFailureRatio > 1 {
		config.MaxFailureRatio = 0.5
	}
	return &MemoChecker{name: name, source: source, config: config}
}

// Name returns the checker name.
func (c *MemoChecker) Name() string {
	return c.name
}

// Check reads the current stats and grades them.
func (c *MemoChecker) Check(ctx context.Context) Result {
	start := time.Now()

	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if c.source == nil {
		return Unhealthy("no stats source", ErrNilSource)
	}

	s := c.source.Stats()
	details := map[string]any{
		"hits":          s.Hits,
		"misses":        s.Misses,
		"evictions":     s.Evictions,
		"failures":      s.Failures,
		"entries":       s.Len,
		"capacity":      s.Capacity,
		"hit_ratio":     s.HitRatio(),
		"failure_ratio": s.FailureRatio(),
	}

	var result Result
	switch {
	case s.Lookups() < c.config.MinSamples:
		result = Healthy(fmt.Sprintf("warming up: %d of %d lookups", s.Lookups(), c.config.MinSamples))
	case s.FailureRatio() >= c.config.MaxFailureRatio:
		result = Unhealthy(
			fmt.Sprintf("computation failure ratio %.1f%%", s.FailureRatio()*100),
			ErrCheckFailed,
		)
	case c.config.MinHitRatio > 0 && s.HitRatio() < c.config.MinHitRatio:
		result = Degraded(fmt.Sprintf("hit ratio low: %.1f%%", s.HitRatio()*100))
	default:
		result = Healthy(fmt.Sprintf("hit ratio %.1f%%", s.HitRatio()*100))
	}

	return result.WithDetails(details).WithDuration(time.Since(start))
}

var _ Checker = (*MemoChecker)(nil)

package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/toolmemo/memo"
)

// Metric names.
const (
	MetricHits            = "memo.hits"
	MetricMisses          = "memo.misses"
	MetricEvictions       = "memo.evictions"
	MetricFailures        = "memo.failures"
	MetricEntries         = "memo.entries"
	MetricComputeTotal    = "memo.compute.total"
	MetricComputeErrors   = "memo.compute.errors"
	MetricComputeDuration = "memo.compute.duration_ms"
)

// Metrics records memo activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordEvent counts one memo event.
	RecordEvent(ctx context.Context, ev memo.Event)

	// RecordCompute records one computation run with its duration and outcome.
	RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error)
}

type metricsImpl struct {
	hits            metric.Int64Counter
	misses          metric.Int64Counter
	evictions       metric.Int64Counter
	failures        metric.Int64Counter
	entries         metric.Int64UpDownCounter
	computeTotal    metric.Int64Counter
	computeErrors   metric.Int64Counter
	computeDuration metric.Float64Histogram
}

// NewMetrics creates the memo instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	m := &metricsImpl{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.hits, MetricHits, "Lookups answered from the memo", "{lookup}"},
		{&m.misses, MetricMisses, "Lookups that ran the computation", "{lookup}"},
		{&m.evictions, MetricEvictions, "Entries evicted to stay within capacity", "{entry}"},
		{&m.failures, MetricFailures, "Computation failures seen by the memo", "{error}"},
		{&m.computeTotal, MetricComputeTotal, "Computation runs", "{call}"},
		{&m.computeErrors, MetricComputeErrors, "Computation runs that returned an error", "{error}"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return nil, err
		}
	}

	m.entries, err = meter.Int64UpDownCounter(MetricEntries,
		metric.WithDescription("Entries currently held"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	m.computeDuration, err = meter.Float64Histogram(MetricComputeDuration,
		metric.WithDescription("Computation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metricsImpl) RecordEvent(ctx context.Context, ev memo.Event) {
	opt := metric.WithAttributes(attribute.String("memo.name", ev.Memo))

	switch ev.Kind {
	case memo.EventHit:
		m.hits.Add(ctx, 1, opt)
	case memo.EventMiss:
		m.misses.Add(ctx, 1, opt)
	case memo.EventStore:
		m.entries.Add(ctx, 1, opt)
	case memo.EventEvict:
		m.evictions.Add(ctx, 1, opt)
		m.entries.Add(ctx, -1, opt)
	case memo.EventFailure:
		m.failures.Add(ctx, 1, opt)
	}
}

func (m *metricsImpl) RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.computeTotal.Add(ctx, 1, opt)
	if err != nil {
		m.computeErrors.Add(ctx, 1, opt)
	}
	m.computeDuration.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordEvent(context.Context, memo.Event) {}

func (noopMetrics) RecordCompute(context.Context, FuncMeta, time.Duration, error) {}

package observe

import (
	"context"

	"github.com/jonwraymond/toolmemo/memo"
)

// Recorder turns memo events into log entries and metrics. It implements
// memo.Observer.
//
// Hits are logged at debug with the key and cached value, evictions at info
// with the evicted key, failures at warn. Misses and stores are debug.
type Recorder struct {
	logger  Logger
	metrics Metrics
}

// NewRecorder creates a Recorder. Nil components are replaced by no-ops.
func NewRecorder(logger Logger, metrics Metrics) *Recorder {
	if logger == nil {
		logger = &noopLogger{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Recorder{logger: logger, metrics: metrics}
}

// RecorderFromObserver builds a Recorder from an Observer's logger and meter.
func RecorderFromObserver(obs Observer) (*Recorder, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewRecorder(obs.Logger(), metrics), nil
}

// Observe implements memo.Observer.
func (r *Recorder) Observe(ctx context.Context, ev memo.Event) {
	r.metrics.RecordEvent(ctx, ev)

	fields := []Field{
		{Key: "memo.name", Value: ev.Memo},
		{Key: "key", Value: ev.Key.String()},
		{Key: "entries", Value: ev.Len},
		{Key: "capacity", Value: ev.Capacity},
	}

	switch ev.Kind {
	case memo.EventHit:
		r.logger.Debug(ctx, "memo hit", append(fields, Field{Key: "value", Value: ev.Value})...)
	case memo.EventMiss:
		r.logger.Debug(ctx, "memo miss", fields...)
	case memo.EventStore:
		r.logger.Debug(ctx, "memo store", fields...)
	case memo.EventEvict:
		r.logger.Info(ctx, "memo full, evicted oldest entry", fields...)
	case memo.EventFailure:
		r.logger.Warn(ctx, "computation failed, result not stored",
			append(fields, Field{Key: "error", Value: ev.Err.Error()})...)
	}
}

var _ memo.Observer = (*Recorder)(nil)

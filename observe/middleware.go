package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/toolmemo/memo"
)

// Middleware wraps computations with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: wrapped functions are as safe as the function they wrap.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
//   - Ownership: arguments and results pass through untouched.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver builds a Middleware from an Observer's providers.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Wrap returns fn instrumented by mw. Only computation runs pass through the
// wrapper; memo hits never reach it.
func Wrap[R any](mw *Middleware, meta FuncMeta, fn memo.Func[R]) memo.Func[R] {
	logger := mw.logger.WithFunc(meta)

	return func(ctx context.Context, args memo.Args) (R, error) {
		ctx, span := mw.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := fn(ctx, args)

		duration := time.Since(start)
		mw.tracer.EndSpan(span, err)
		mw.metrics.RecordCompute(ctx, meta, duration, err)

		fields := []Field{
			{Key: "duration_ms", Value: float64(duration) / float64(time.Millisecond)},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "computation failed", fields...)
		} else {
			logger.Debug(ctx, "computation completed", fields...)
		}

		return result, err
	}
}

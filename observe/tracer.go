package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// FuncMeta describes a memoized function for telemetry purposes.
type FuncMeta struct {
	Name      string // Function name (required)
	Namespace string // Grouping for related functions (optional)
	Version   string // Function version (optional)
}

// ID returns namespace.name, or name when there is no namespace.
func (m FuncMeta) ID() string {
	if m.Namespace != "" {
		return m.Namespace + "." + m.Name
	}
	return m.Name
}

// SpanName returns memo.compute.<id>.
func (m FuncMeta) SpanName() string {
	return "memo.compute." + m.ID()
}

func (m FuncMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("memo.id", m.ID()),
		attribute.String("memo.name", m.Name),
	}
	if m.Namespace != "" {
		attrs = append(attrs, attribute.String("memo.namespace", m.Namespace))
	}
	return attrs
}

// Tracer manages spans around computation runs.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for one computation run.
	StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording err if non-nil.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("memo.error", false))
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("memo.version", meta.Version))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("memo.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}

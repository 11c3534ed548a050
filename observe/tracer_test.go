package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestFuncMeta_Names(t *testing.T) {
	tests := []struct {
		meta     FuncMeta
		id, span string
	}{
		{FuncMeta{Namespace: "math", Name: "square"}, "math.square", "memo.compute.math.square"},
		{FuncMeta{Name: "square"}, "square", "memo.compute.square"},
	}
	for _, tt := range tests {
		if got := tt.meta.ID(); got != tt.id {
			t.Errorf("ID() = %q, want %q", got, tt.id)
		}
		if got := tt.meta.SpanName(); got != tt.span {
			t.Errorf("SpanName() = %q, want %q", got, tt.span)
		}
	}
}

func TestTracer_SpanAttributes(t *testing.T) {
	tr, recorder := newRecordingTracer()
	meta := FuncMeta{Namespace: "math", Name: "square", Version: "1.0.0"}

	_, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "memo.compute.math.square" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}

	want := map[string]string{
		"memo.id":        "math.square",
		"memo.name":      "square",
		"memo.namespace": "math",
		"memo.version":   "1.0.0",
	}
	for k, v := range want {
		got, ok := spanAttr(s, k)
		if !ok || got.AsString() != v {
			t.Errorf("attribute %s = %v, want %q", k, got.Emit(), v)
		}
	}
}

func TestTracer_ErrorStatus(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), FuncMeta{Name: "broken"})
	tr.EndSpan(span, errors.New("boom"))

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if s.Status().Description != "boom" {
		t.Errorf("description = %q, want boom", s.Status().Description)
	}
	if v, ok := spanAttr(s, "memo.error"); !ok || !v.AsBool() {
		t.Error("expected memo.error=true")
	}
	if len(s.Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}

func TestNoopTracer(t *testing.T) {
	tr := newNoopTracer()
	_, span := tr.StartSpan(context.Background(), FuncMeta{Name: "noop"})
	tr.EndSpan(span, errors.New("ignored"))
}

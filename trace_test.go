package lingolens

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestPlacementSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	f := newFixture(t, StoreOptions{Tracer: tp.Tracer("test")})

	f.place(t, "mug")
	f.frame = &fakeFrame{}
	f.store.Add("ghost", screenCenter)
	f.store.Update(f.root, f.frame, frameDT)

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	ok := spans[0]
	if ok.Name() != "lingolens.place" {
		t.Errorf("name = %q", ok.Name())
	}
	if v, found := spanAttr(ok, "outcome"); !found || v.AsString() != "plane" {
		t.Errorf("outcome = %v, want plane", v.AsString())
	}
	if v, found := spanAttr(ok, "annotation.id"); !found || v.AsString() != f.store.Annotations()[0].ID {
		t.Error("successful span should carry the annotation id")
	}
	if ok.Status().Code == codes.Error {
		t.Error("successful placement should not be an error span")
	}

	failed := spans[1]
	if failed.Status().Code != codes.Error {
		t.Errorf("status = %v, want error", failed.Status().Code)
	}
	if v, _ := spanAttr(failed, "label"); v.AsString() != "ghost" {
		t.Errorf("label = %q, want ghost", v.AsString())
	}
	if len(failed.Events()) == 0 {
		t.Error("failed span should record the error")
	}
}

package todo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nibzard/tasknest/internal/kv"
)

func tracedStore(t *testing.T, b kv.Backend) (*Store, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return newTestStore(b, WithTracerProvider(tp)), exp
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name)
	}
	return names
}

func TestCreateEmitsLoadAndSaveSpans(t *testing.T) {
	s, exp := tracedStore(t, kv.NewMemory())

	mustCreate(t, s, Draft{Title: "Traced"})

	spans := exp.GetSpans()
	want := []string{"todo.LoadAll", "todo.SaveAll"}
	if got := spanNames(spans); !reflect.DeepEqual(got, want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	count := attribute.Int("tasks.count", 1)
	found := false
	for _, attr := range spans[1].Attributes {
		if attr == count {
			found = true
		}
	}
	if !found {
		t.Errorf("save span attributes %v lack %v", spans[1].Attributes, count)
	}
}

func TestFailedLoadMarksSpan(t *testing.T) {
	b := newStubBackend()
	b.getErr = errors.New("disk gone")
	s, exp := tracedStore(t, b)

	if _, err := s.LoadAll(context.Background()); err == nil {
		t.Fatal("LoadAll should fail")
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("the error was not recorded as a span event")
	}
}

func TestClearAllSpan(t *testing.T) {
	s, exp := tracedStore(t, kv.NewMemory())
	if err := s.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if got := spanNames(exp.GetSpans()); !reflect.DeepEqual(got, []string{"todo.ClearAll"}) {
		t.Errorf("spans = %v, want [todo.ClearAll]", got)
	}
}

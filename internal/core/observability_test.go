package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if rec.Name() == "" {
		t.Fatalf("expected generated name")
	}
	ctx := context.Background()
	rec.Observe(ctx, "menu", true, 20*time.Millisecond)
	rec.Observe(ctx, "menu", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	snap := rec.Snapshot()
	if snap.Results["menu"]["success"] != 1 || snap.Results["menu"]["error"] != 1 {
		t.Fatalf("unexpected results: %+v", snap.Results)
	}
	if snap.DurationsMS["menu"] < 24 {
		t.Fatalf("unexpected duration total: %v", snap.DurationsMS["menu"])
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation must be ignored, got %+v", snap.Results)
	}
}

func TestJSONTracerRecordsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "install_plugin")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "menu")
	span.End(context.DeadlineExceeded)

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two spans, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[1].Status != "error" {
		t.Fatalf("unexpected statuses: %+v", entries)
	}
	if !strings.Contains(buf.String(), `"operation":"install_plugin"`) {
		t.Fatalf("expected encoded span, got %s", buf.String())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(registry)
	ctx := context.Background()
	rec.Observe(ctx, "menu", true, 10*time.Millisecond)
	rec.Observe(ctx, "menu", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sawCounter, sawHistogram bool
	for _, fam := range families {
		switch fam.GetName() {
		case "menucore_service_operations_total":
			sawCounter = true
			var total float64
			for _, m := range fam.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			if total != 2 {
				t.Fatalf("expected 2 observations, got %v", total)
			}
		case "menucore_service_operation_duration_seconds":
			sawHistogram = true
		}
	}
	if !sawCounter || !sawHistogram {
		t.Fatalf("expected both metric families, got %+v", families)
	}
}

func TestServiceEmitsMetricsAndTraces(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	rec := NewExpvarMetricsRecorder("")
	svc := NewInMemoryService(WithTracer(tracer), WithMetricsRecorder(rec))

	if _, err := svc.Menu(context.Background(), "missing"); err == nil {
		t.Fatalf("expected not found")
	}
	svc.Menus(context.Background())

	snap := rec.Snapshot()
	if snap.Results["menu"]["error"] != 1 {
		t.Fatalf("expected menu error observation, got %+v", snap.Results)
	}
	if snap.Results["menus"]["success"] != 1 {
		t.Fatalf("expected menus success observation, got %+v", snap.Results)
	}
	if len(tracer.Entries()) != 2 {
		t.Fatalf("expected two spans, got %d", len(tracer.Entries()))
	}
}

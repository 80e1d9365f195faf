package core

import (
	"bytes"
	"context"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			return true
		}
	}
	return false
}

func TestServiceObservabilityCompliance(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	metrics := &captureMetricsRecorder{}
	tracer := NewJSONTracer(nil)

	svc := NewInMemoryService(
		WithAuditRecorder(audit),
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)

	if _, err := svc.RegisterProgramme(ctx, "PM", 10); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !audit.has("register_programme", AuditStatusSuccess) {
		t.Fatalf("expected audit entry for register_programme success")
	}
	if !metrics.has("register_programme", true) {
		t.Fatalf("expected metrics entry for register_programme success")
	}

	if err := svc.ReconcileList(ctx, "Ghost", "01.08", nil); err == nil {
		t.Fatalf("expected reconcile error for unknown programme")
	}
	if !audit.has("reconcile_list", AuditStatusError) {
		t.Fatalf("expected audit error entry for reconcile_list")
	}
	if !metrics.has("reconcile_list", false) {
		t.Fatalf("expected metrics entry for failed reconcile_list")
	}

	foundSpan := false
	for _, entry := range tracer.Entries() {
		if entry.Operation == "reconcile_list" && entry.Status == "error" {
			foundSpan = true
		}
	}
	if !foundSpan {
		t.Fatalf("expected trace span for failed reconcile_list")
	}
}

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), "reconcile_list", true, 5*time.Millisecond)
	rec.Observe(context.Background(), "reconcile_list", false, time.Millisecond)

	snap := rec.Snapshot()
	if snap.Results["reconcile_list"]["success"] != 1 || snap.Results["reconcile_list"]["error"] != 1 {
		t.Fatalf("unexpected results: %+v", snap.Results)
	}
	if snap.DurationsMS["reconcile_list"] < 5 {
		t.Fatalf("unexpected durations: %+v", snap.DurationsMS)
	}
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("recorder %s not published via expvar", rec.Name())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.Observe(context.Background(), "passing_scores", true, 3*time.Millisecond)
	rec.Observe(context.Background(), "passing_scores", true, time.Millisecond)
	rec.Observe(context.Background(), "passing_scores", false, time.Millisecond)

	if got := testutil.ToFloat64(rec.results.WithLabelValues("passing_scores", "success")); got != 2 {
		t.Fatalf("success counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues("passing_scores", "error")); got != 1 {
		t.Fatalf("error counter = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rec.durations); got == 0 {
		t.Fatalf("expected duration histogram samples")
	}

	// Double registration must error instead of panicking.
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestJSONTracerWritesEntries(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "export_day_results")
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 1 || entries[0].Operation != "export_day_results" || entries[0].Status != "success" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if !strings.Contains(buf.String(), "\"operation\":\"export_day_results\"") {
		t.Fatalf("span not encoded to writer: %s", buf.String())
	}
}

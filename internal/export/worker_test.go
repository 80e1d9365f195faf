package export

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"admissioncore/internal/blob"
)

type stubExporter struct {
	mu       sync.Mutex
	days     []string
	exported []string
	failDay  string
}

func (s *stubExporter) Days(ctx context.Context) []string { return s.days }

func (s *stubExporter) ExportDayResults(ctx context.Context, day string) (blob.Info, error) {
	s.mu.Lock()
	s.exported = append(s.exported, day)
	s.mu.Unlock()
	if day == s.failDay {
		return blob.Info{}, fmt.Errorf("allocation failed for %s", day)
	}
	return blob.Info{Key: "results/" + day + ".json", Size: int64(len(day))}, nil
}

func waitForStatus(t *testing.T, w *Worker, day string, want Status) Record {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := w.Get(day); ok && rec.Status == want {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	rec, _ := w.Get(day)
	t.Fatalf("day %s never reached %s, last record %+v", day, want, rec)
	return Record{}
}

func TestWorkerProcessesQueuedDay(t *testing.T) {
	exp := &stubExporter{}
	w := NewWorker(exp)
	w.Start()
	defer func() { _ = w.Stop(context.Background()) }()

	rec, err := w.Enqueue("01.08")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if rec.Status != StatusQueued {
		t.Fatalf("status = %s", rec.Status)
	}

	done := waitForStatus(t, w, "01.08", StatusSucceeded)
	if done.Key != "results/01.08.json" {
		t.Fatalf("key = %s", done.Key)
	}
	if done.Size != int64(len("01.08")) {
		t.Fatalf("size = %d", done.Size)
	}
}

func TestWorkerRecordsFailure(t *testing.T) {
	exp := &stubExporter{failDay: "02.08"}
	w := NewWorker(exp)
	w.Start()
	defer func() { _ = w.Stop(context.Background()) }()

	if _, err := w.Enqueue("02.08"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	rec := waitForStatus(t, w, "02.08", StatusFailed)
	if rec.Error == "" {
		t.Fatalf("expected error message on failed record")
	}
	if rec.Key != "" {
		t.Fatalf("failed record should not carry a key, got %s", rec.Key)
	}
}

func TestWorkerEnqueueAll(t *testing.T) {
	exp := &stubExporter{days: []string{"01.08", "02.08", "03.08"}}
	w := NewWorker(exp)
	w.Start()
	defer func() { _ = w.Stop(context.Background()) }()

	records, err := w.EnqueueAll(context.Background())
	if err != nil {
		t.Fatalf("enqueue all: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d", len(records))
	}
	for _, day := range exp.days {
		waitForStatus(t, w, day, StatusSucceeded)
	}
}

func TestWorkerRejectsEmptyDay(t *testing.T) {
	w := NewWorker(&stubExporter{})
	if _, err := w.Enqueue("  "); err == nil {
		t.Fatalf("expected error for blank day")
	}
}

func TestWorkerFullQueueLeavesNoStaleRecord(t *testing.T) {
	w := NewWorker(&stubExporter{}) // never started, so the queue only drains on capacity
	for i := 0; i < cap(w.queue); i++ {
		if _, err := w.Enqueue(fmt.Sprintf("%02d.08", i)); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if _, err := w.Enqueue("overflow"); err == nil {
		t.Fatalf("expected queue full error")
	}
	if _, ok := w.Get("overflow"); ok {
		t.Fatalf("rejected enqueue left a queued record behind")
	}
}

func TestWorkerStopHaltsLoop(t *testing.T) {
	w := NewWorker(&stubExporter{})
	w.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

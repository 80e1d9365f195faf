// Package export runs allocation result exports asynchronously: each job
// renders one day's passing scores to JSON and uploads it through the
// service's blob store.
package export

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"admissioncore/internal/blob"
)

// Exporter is the slice of the core service the worker needs.
type Exporter interface {
	Days(ctx context.Context) []string
	ExportDayResults(ctx context.Context, day string) (blob.Info, error)
}

// Status enumerates job states.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record tracks one export job.
type Record struct {
	Day       string    `json:"day"`
	Status    Status    `json:"status"`
	Key       string    `json:"key,omitempty"`
	Size      int64     `json:"size_bytes,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Worker processes day-export jobs off the caller's goroutine.
type Worker struct {
	exporter Exporter

	queue chan string
	mu    sync.RWMutex
	jobs  map[string]*Record

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker constructs an export worker over the supplied exporter.
func NewWorker(exporter Exporter) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		exporter: exporter,
		queue:    make(chan string, 32),
		jobs:     make(map[string]*Record),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case day := <-w.queue:
			w.process(day)
		}
	}
}

// Enqueue schedules an export of one day's results and returns the queued
// record. A day already in flight is re-queued; the last run wins.
func (w *Worker) Enqueue(day string) (Record, error) {
	if strings.TrimSpace(day) == "" {
		return Record{}, fmt.Errorf("day identifier required")
	}
	record := Record{Day: day, Status: StatusQueued, UpdatedAt: time.Now().UTC()}
	w.mu.Lock()
	defer w.mu.Unlock()
	// Reserve the queue slot before touching the jobs map, so a rejected
	// enqueue never leaves behind a record no run will ever update.
	select {
	case w.queue <- day:
	default:
		return Record{}, fmt.Errorf("export queue full")
	}
	w.jobs[day] = &record
	return record, nil
}

// EnqueueAll schedules exports for every day known to the store.
func (w *Worker) EnqueueAll(ctx context.Context) ([]Record, error) {
	var records []Record
	for _, day := range w.exporter.Days(ctx) {
		rec, err := w.Enqueue(day)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Get returns a snapshot of the job record for a day.
func (w *Worker) Get(day string) (Record, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, ok := w.jobs[day]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

func (w *Worker) process(day string) {
	info, err := w.exporter.ExportDayResults(w.ctx, day)
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.jobs[day]
	if !ok {
		rec = &Record{Day: day}
		w.jobs[day] = rec
	}
	rec.UpdatedAt = time.Now().UTC()
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		return
	}
	rec.Status = StatusSucceeded
	rec.Key = info.Key
	rec.Size = info.Size
	rec.Error = ""
}

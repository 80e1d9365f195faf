package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"admissioncore/internal/blob"
	"admissioncore/internal/infra/persistence/memory"
	"admissioncore/pkg/domain"
)

// Service exposes the transactional admissions operations: programme
// registration, list reconciliation, passing-score computation and the
// read-only projections used by reporting collaborators.
type Service struct {
	store   PersistentStore
	blobs   blob.Store
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	nowFn   func() time.Time
}

// ServiceOption customises optional service collaborators.
type ServiceOption func(*Service)

// WithAuditRecorder attaches an audit recorder to the service.
func WithAuditRecorder(rec AuditRecorder) ServiceOption {
	return func(s *Service) { s.audit = rec }
}

// WithMetricsRecorder attaches a metrics recorder to the service.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = rec }
}

// WithTracer attaches a tracer to the service.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) { s.tracer = tracer }
}

// WithBlobStore attaches an object store used by the export operations.
func WithBlobStore(store blob.Store) ServiceOption {
	return func(s *Service) { s.blobs = store }
}

// WithNowFunc overrides the service clock, mostly for tests.
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) { s.nowFn = now }
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{store: store, nowFn: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// RegisterProgramme registers a programme with its seat quota.
// Re-registering an existing name is a no-op returning the stored record.
func (s *Service) RegisterProgramme(ctx context.Context, name string, seats int) (Programme, error) {
	ctx, done := s.instrument(ctx, "register_programme", name)
	var registered Programme
	err := func() error {
		if name == "" {
			return fmt.Errorf("programme name required")
		}
		if seats < 0 {
			return fmt.Errorf("programme %q: seats must be non-negative, got %d", name, seats)
		}
		return s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			registered, err = tx.PutProgramme(Programme{Name: name, Seats: seats})
			return err
		})
	}()
	done(err)
	return registered, err
}

// ReconcileList makes the stored applications for (programme, day) exactly
// match the incoming list: applicants absent from the list are deleted,
// present ones are upserted with the list's field values, and applicant
// records are created as needed. The call applies fully or not at all.
func (s *Service) ReconcileList(ctx context.Context, programme, day string, records []ApplicationRecord) error {
	ctx, done := s.instrument(ctx, "reconcile_list", programme+"/"+day)
	err := func() error {
		if day == "" {
			return fmt.Errorf("day identifier required")
		}
		if err := validateRecords(records); err != nil {
			return err
		}
		return s.store.RunInTransaction(ctx, func(tx Transaction) error {
			prog, ok := tx.FindProgramme(programme)
			if !ok {
				return domain.UnknownProgrammeError{Name: programme}
			}
			incoming := make(map[int64]struct{}, len(records))
			for _, rec := range records {
				tx.EnsureApplicant(rec.ApplicantID)
				incoming[rec.ApplicantID] = struct{}{}
			}
			for _, existing := range tx.ListApplications(prog.ID, day) {
				if _, keep := incoming[existing.ApplicantID]; !keep {
					tx.DeleteApplication(existing.ApplicantID, prog.ID, day)
				}
			}
			// Duplicate ids within one list resolve last-wins, as the
			// reference applied rows sequentially.
			for _, rec := range records {
				tx.UpsertApplication(Application{
					ApplicantID:  rec.ApplicantID,
					ProgrammeID:  prog.ID,
					Day:          day,
					Consent:      rec.Consent,
					Priority:     rec.Priority,
					Physics:      rec.Physics,
					Russian:      rec.Russian,
					Math:         rec.Math,
					Achievements: rec.Achievements,
					Total:        rec.Total,
				})
			}
			return nil
		})
	}()
	done(err)
	return err
}

func validateRecords(records []ApplicationRecord) error {
	for i, rec := range records {
		if rec.ApplicantID <= 0 {
			return domain.MalformedRecordError{Row: i, Column: "ID", Reason: fmt.Sprintf("applicant id must be positive, got %d", rec.ApplicantID)}
		}
	}
	return nil
}

// PassingScores computes the cascade allocation outcome for one day across
// all registered programmes.
func (s *Service) PassingScores(ctx context.Context, day string) (AllocationResult, error) {
	ctx, done := s.instrument(ctx, "passing_scores", day)
	var result AllocationResult
	err := s.store.View(ctx, func(view TransactionView) error {
		result = allocate(view.ListProgrammes(), view.ListApplications(ApplicationFilter{Day: day}))
		return nil
	})
	done(err)
	return result, err
}

// Programmes lists all registered programmes with their seat quotas.
func (s *Service) Programmes(_ context.Context) []Programme {
	return s.store.ListProgrammes()
}

// Applications lists stored applications matching the filter, ordered by
// total descending.
func (s *Service) Applications(_ context.Context, filter ApplicationFilter) []Application {
	return s.store.ListApplications(filter)
}

// Days lists the distinct days with at least one stored application,
// ascending. Collaborators use it to drive historical dynamics views.
func (s *Service) Days(_ context.Context) []string {
	return s.store.ListDays()
}

// ExportDayResults renders the allocation outcome for day as JSON and stores
// it in the configured blob store under results/<day>.json, replacing any
// previous export for the same day.
func (s *Service) ExportDayResults(ctx context.Context, day string) (blob.Info, error) {
	ctx, done := s.instrument(ctx, "export_day_results", day)
	var info blob.Info
	err := func() error {
		if s.blobs == nil {
			return fmt.Errorf("no blob store configured")
		}
		result, err := s.PassingScores(ctx, day)
		if err != nil {
			return err
		}
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		info, err = s.blobs.Put(ctx, "results/"+day+".json", bytes.NewReader(payload), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"day": day},
		})
		return err
	}()
	done(err)
	return info, err
}

// ArchiveList stores the raw bytes of an ingested list in the blob store
// under lists/<programme>/<day>.csv for later audit.
func (s *Service) ArchiveList(ctx context.Context, programme, day string, payload io.Reader) (blob.Info, error) {
	ctx, done := s.instrument(ctx, "archive_list", programme+"/"+day)
	var info blob.Info
	err := func() error {
		if s.blobs == nil {
			return fmt.Errorf("no blob store configured")
		}
		var err error
		info, err = s.blobs.Put(ctx, "lists/"+programme+"/"+day+".csv", payload, blob.PutOptions{
			ContentType: "text/csv",
			Metadata:    map[string]string{"programme": programme, "day": day},
		})
		return err
	}()
	done(err)
	return info, err
}

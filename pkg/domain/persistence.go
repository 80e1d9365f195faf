package domain

import "context"

// Transaction exposes the mutations a persistence implementation must
// support within an atomic scope. A transaction observes and mutates a
// private clone of store state; nothing becomes visible until the enclosing
// RunInTransaction call returns without error.
type Transaction interface {
	// PutProgramme registers a programme. Re-registering an existing name is
	// a no-op returning the stored record.
	PutProgramme(Programme) (Programme, error)
	// FindProgramme looks a programme up by name.
	FindProgramme(name string) (Programme, bool)
	// EnsureApplicant records an applicant id, create-if-absent.
	EnsureApplicant(id int64)
	// ListApplications returns the applications stored for a programme and
	// day, in unspecified order.
	ListApplications(programmeID int64, day string) []Application
	// UpsertApplication inserts the application or overwrites the mutable
	// fields of an existing one keyed by (applicant, programme, day).
	UpsertApplication(Application)
	// DeleteApplication removes the application keyed by (applicant,
	// programme, day). Deleting a missing row is a no-op.
	DeleteApplication(applicantID, programmeID int64, day string)
}

// TransactionView provides read-only access to a consistent point-in-time
// snapshot of store state.
type TransactionView interface {
	ListProgrammes() []Programme
	FindProgramme(name string) (Programme, bool)
	// ListApplications returns applications matching the filter ordered by
	// total descending.
	ListApplications(ApplicationFilter) []Application
	// ListDays returns the distinct days having at least one stored
	// application, ascending.
	ListDays() []string
}

// PersistentStore is the minimal abstraction over durable backends used by
// higher layers. Writers are mutually exclusive; readers operate on
// snapshots and never observe a torn write.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) error
	View(ctx context.Context, fn func(TransactionView) error) error
	ListProgrammes() []Programme
	ListApplications(ApplicationFilter) []Application
	ListDays() []string
}

// Package memory provides an in-memory implementation of the admissions
// persistence store used for tests and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"

	"admissioncore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Programme aliases domain.Programme for in-memory persistence operations.
	Programme = domain.Programme
	// Application aliases domain.Application.
	Application = domain.Application
	// ApplicationFilter aliases domain.ApplicationFilter.
	ApplicationFilter = domain.ApplicationFilter
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type applicationKey struct {
	ApplicantID int64
	ProgrammeID int64
	Day         string
}

type memoryState struct {
	programmes   map[string]Programme // keyed by unique name
	applicants   map[int64]struct{}
	applications map[applicationKey]Application
	nextProgID   int64
}

func newMemoryState() memoryState {
	return memoryState{
		programmes:   make(map[string]Programme),
		applicants:   make(map[int64]struct{}),
		applications: make(map[applicationKey]Application),
		nextProgID:   1,
	}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		programmes:   make(map[string]Programme, len(s.programmes)),
		applicants:   make(map[int64]struct{}, len(s.applicants)),
		applications: make(map[applicationKey]Application, len(s.applications)),
		nextProgID:   s.nextProgID,
	}
	for k, v := range s.programmes {
		out.programmes[k] = v
	}
	for k := range s.applicants {
		out.applicants[k] = struct{}{}
	}
	for k, v := range s.applications {
		out.applications[k] = v
	}
	return out
}

// Snapshot captures a point-in-time clone of the store state in a
// serialization-friendly shape. Slices are ordered deterministically.
type Snapshot struct {
	Programmes   []Programme   `json:"programmes"`
	Applicants   []int64       `json:"applicants"`
	Applications []Application `json:"applications"`
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	snap := Snapshot{
		Programmes:   make([]Programme, 0, len(state.programmes)),
		Applicants:   make([]int64, 0, len(state.applicants)),
		Applications: make([]Application, 0, len(state.applications)),
	}
	for _, p := range state.programmes {
		snap.Programmes = append(snap.Programmes, p)
	}
	sort.Slice(snap.Programmes, func(i, j int) bool { return snap.Programmes[i].ID < snap.Programmes[j].ID })
	for id := range state.applicants {
		snap.Applicants = append(snap.Applicants, id)
	}
	sort.Slice(snap.Applicants, func(i, j int) bool { return snap.Applicants[i] < snap.Applicants[j] })
	for _, a := range state.applications {
		snap.Applications = append(snap.Applications, a)
	}
	sort.Slice(snap.Applications, func(i, j int) bool {
		ai, aj := snap.Applications[i], snap.Applications[j]
		if ai.Day != aj.Day {
			return ai.Day < aj.Day
		}
		if ai.ProgrammeID != aj.ProgrammeID {
			return ai.ProgrammeID < aj.ProgrammeID
		}
		return ai.ApplicantID < aj.ApplicantID
	})
	return snap
}

func memoryStateFromSnapshot(snap Snapshot) memoryState {
	state := newMemoryState()
	for _, p := range snap.Programmes {
		state.programmes[p.Name] = p
		if p.ID >= state.nextProgID {
			state.nextProgID = p.ID + 1
		}
	}
	for _, id := range snap.Applicants {
		state.applicants[id] = struct{}{}
	}
	for _, a := range snap.Applications {
		state.applications[applicationKey{a.ApplicantID, a.ProgrammeID, a.Day}] = a
	}
	return state
}

// Store is a mutex-guarded in-memory persistence store. Transactions mutate
// a cloned state which replaces the live state only on success, giving
// all-or-nothing semantics to reconciliation.
type Store struct {
	mu    sync.RWMutex
	state memoryState
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// ExportState returns a deterministic snapshot of current state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store contents with the supplied snapshot.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snap)
}

// RunInTransaction executes fn against a cloned state and swaps the clone in
// when fn succeeds. Any error from fn leaves the store untouched.
func (s *Store) RunInTransaction(_ context.Context, fn func(tx Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// View runs fn against a read-only point-in-time snapshot.
func (s *Store) View(_ context.Context, fn func(view TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(&stateView{state: &snapshot})
}

// ListProgrammes returns all registered programmes ordered by id.
func (s *Store) ListProgrammes() []Programme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listProgrammes(&s.state)
}

// ListApplications returns applications matching the filter ordered by
// total descending.
func (s *Store) ListApplications(filter ApplicationFilter) []Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listApplications(&s.state, filter)
}

// ListDays returns the distinct days with at least one stored application,
// ascending.
func (s *Store) ListDays() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listDays(&s.state)
}

type transaction struct {
	state memoryState
}

var _ Transaction = (*transaction)(nil)

func (tx *transaction) PutProgramme(p Programme) (Programme, error) {
	if existing, ok := tx.state.programmes[p.Name]; ok {
		return existing, nil
	}
	p.ID = tx.state.nextProgID
	tx.state.nextProgID++
	tx.state.programmes[p.Name] = p
	return p, nil
}

func (tx *transaction) FindProgramme(name string) (Programme, bool) {
	p, ok := tx.state.programmes[name]
	return p, ok
}

func (tx *transaction) EnsureApplicant(id int64) {
	tx.state.applicants[id] = struct{}{}
}

func (tx *transaction) ListApplications(programmeID int64, day string) []Application {
	var out []Application
	for _, a := range tx.state.applications {
		if a.ProgrammeID == programmeID && a.Day == day {
			out = append(out, a)
		}
	}
	return out
}

func (tx *transaction) UpsertApplication(a Application) {
	tx.state.applications[applicationKey{a.ApplicantID, a.ProgrammeID, a.Day}] = a
}

func (tx *transaction) DeleteApplication(applicantID, programmeID int64, day string) {
	delete(tx.state.applications, applicationKey{applicantID, programmeID, day})
}

type stateView struct {
	state *memoryState
}

var _ TransactionView = (*stateView)(nil)

func (v *stateView) ListProgrammes() []Programme { return listProgrammes(v.state) }

func (v *stateView) FindProgramme(name string) (Programme, bool) {
	p, ok := v.state.programmes[name]
	return p, ok
}

func (v *stateView) ListApplications(filter ApplicationFilter) []Application {
	return listApplications(v.state, filter)
}

func (v *stateView) ListDays() []string { return listDays(v.state) }

func listProgrammes(state *memoryState) []Programme {
	out := make([]Programme, 0, len(state.programmes))
	for _, p := range state.programmes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listApplications(state *memoryState, filter ApplicationFilter) []Application {
	var programmeID int64
	if filter.Programme != "" {
		p, ok := state.programmes[filter.Programme]
		if !ok {
			return nil
		}
		programmeID = p.ID
	}
	var out []Application
	for _, a := range state.applications {
		if programmeID != 0 && a.ProgrammeID != programmeID {
			continue
		}
		if filter.Day != "" && a.Day != filter.Day {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].ApplicantID != out[j].ApplicantID {
			return out[i].ApplicantID < out[j].ApplicantID
		}
		return out[i].ProgrammeID < out[j].ProgrammeID
	})
	return out
}

func listDays(state *memoryState) []string {
	seen := make(map[string]struct{})
	for _, a := range state.applications {
		seen[a.Day] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

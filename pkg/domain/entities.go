// Package domain defines the core persistent entities, value types, and
// persistence contracts used by admissioncore.
package domain

// Programme is an academic track with a fixed quota of budget seats.
// Names are unique across the store; seats are treated as read-only input
// by the allocation engine.
type Programme struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

// Application captures one applicant's intent to enrol in a programme on a
// specific day of the campaign, along with exam scores, preference priority
// and enrolment consent. An applicant holds at most one application per
// (programme, day) pair.
type Application struct {
	ApplicantID  int64  `json:"applicant_id"`
	ProgrammeID  int64  `json:"programme_id"`
	Day          string `json:"day"`
	Consent      bool   `json:"consent"`
	Priority     int    `json:"priority"`
	Physics      int    `json:"physics"`
	Russian      int    `json:"russian"`
	Math         int    `json:"math"`
	Achievements int    `json:"achievements"`
	Total        int    `json:"total"`
}

// ApplicationRecord is one row of an ingested admissions list, before it is
// bound to a programme and day. Total is caller-supplied and never
// recomputed.
type ApplicationRecord struct {
	ApplicantID  int64 `json:"applicant_id"`
	Consent      bool  `json:"consent"`
	Priority     int   `json:"priority"`
	Physics      int   `json:"physics"`
	Russian      int   `json:"russian"`
	Math         int   `json:"math"`
	Achievements int   `json:"achievements"`
	Total        int   `json:"total"`
}

// ApplicationFilter narrows application queries. Zero values match
// everything.
type ApplicationFilter struct {
	Programme string // programme name, empty matches all
	Day       string // day identifier, empty matches all
}

// ProgrammeResult is the allocation outcome for one programme on one day.
// Admitted is ordered by total descending, ties broken by ascending
// applicant id. When the programme did not fill (or has zero seats)
// Underenrolled is set and PassingScore is meaningless.
type ProgrammeResult struct {
	PassingScore  int     `json:"passing_score"`
	Underenrolled bool    `json:"underenrolled"`
	Admitted      []int64 `json:"admitted"`
}

// AllocationResult maps programme names to their outcome for a single day.
type AllocationResult map[string]ProgrammeResult

package domain

import "fmt"

// UnknownProgrammeError is returned when an operation references a programme
// name that was never registered. Registration is an explicit setup step;
// reconciliation never creates programmes implicitly.
type UnknownProgrammeError struct {
	Name string
}

func (e UnknownProgrammeError) Error() string {
	return fmt.Sprintf("unknown programme %q", e.Name)
}

// MalformedRecordError is returned when an ingestion row fails shape or type
// validation. The reconciliation call that carried the row is rejected as a
// whole; no partial state change is committed.
type MalformedRecordError struct {
	Row    int    // zero-based row index within the incoming list
	Column string // offending column, empty when the whole row is at fault
	Reason string
}

func (e MalformedRecordError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed record at row %d, column %s: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("malformed record at row %d: %s", e.Row, e.Reason)
}

// StorageError wraps a failure of the underlying persistence backend. The
// core surfaces it as-is; retry policy belongs to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

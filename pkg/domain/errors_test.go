package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUnknownProgrammeErrorMessage(t *testing.T) {
	err := UnknownProgrammeError{Name: "PM"}
	if got := err.Error(); got != `unknown programme "PM"` {
		t.Fatalf("message = %s", got)
	}
}

func TestMalformedRecordErrorMessages(t *testing.T) {
	withColumn := MalformedRecordError{Row: 3, Column: "priority", Reason: "not an integer"}
	if got := withColumn.Error(); got != "malformed record at row 3, column priority: not an integer" {
		t.Fatalf("message = %s", got)
	}
	wholeRow := MalformedRecordError{Row: 0, Reason: "applicant id must be positive"}
	if got := wholeRow.Error(); strings.Contains(got, "column") {
		t.Fatalf("row-level message should not mention a column: %s", got)
	}
}

func TestStorageErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := StorageError{Op: "persist", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
	wrapped := fmt.Errorf("reconcile: %w", err)
	var se StorageError
	if !errors.As(wrapped, &se) {
		t.Fatalf("expected errors.As to find StorageError")
	}
	if se.Op != "persist" {
		t.Fatalf("op = %s", se.Op)
	}
}

func TestErrorsDistinguishableViaAs(t *testing.T) {
	var err error = UnknownProgrammeError{Name: "IB"}
	var mre MalformedRecordError
	if errors.As(err, &mre) {
		t.Fatalf("unknown programme error must not match malformed record error")
	}
	var upe UnknownProgrammeError
	if !errors.As(err, &upe) || upe.Name != "IB" {
		t.Fatalf("expected UnknownProgrammeError with name IB, got %+v", upe)
	}
}

// Package ingest decodes tabular admissions lists into domain records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"admissioncore/pkg/domain"
)

// Canonical list columns. The header row is required; column order is free.
var requiredColumns = []string{"ID", "Consent", "Priority", "Physics", "Russian", "Math", "Achievements", "Total"}

// DecodeCSV reads an admissions list in CSV form and returns its records.
// Missing columns, non-integer values and unparseable consent flags surface
// as domain.MalformedRecordError; the caller rejects the whole list.
func DecodeCSV(r io.Reader) ([]domain.ApplicationRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, domain.MalformedRecordError{Row: 0, Reason: "empty input, header row required"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, domain.MalformedRecordError{Row: 0, Column: name, Reason: "missing column"}
		}
	}

	var records []domain.ApplicationRecord
	for row := 0; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.MalformedRecordError{Row: row, Reason: err.Error()}
		}
		rec, err := decodeRow(columns, fields, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRow(columns map[string]int, fields []string, row int) (domain.ApplicationRecord, error) {
	field := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(fields) {
			return "", domain.MalformedRecordError{Row: row, Column: name, Reason: "missing value"}
		}
		return strings.TrimSpace(fields[idx]), nil
	}
	readInt := func(name string) (int, error) {
		raw, err := field(name)
		if err != nil {
			return 0, err
		}
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, domain.MalformedRecordError{Row: row, Column: name, Reason: fmt.Sprintf("not an integer: %q", raw)}
		}
		return v, nil
	}

	var rec domain.ApplicationRecord
	rawID, err := field("ID")
	if err != nil {
		return rec, err
	}
	id, convErr := strconv.ParseInt(rawID, 10, 64)
	if convErr != nil || id <= 0 {
		return rec, domain.MalformedRecordError{Row: row, Column: "ID", Reason: fmt.Sprintf("not a positive integer: %q", rawID)}
	}
	rec.ApplicantID = id

	rawConsent, err := field("Consent")
	if err != nil {
		return rec, err
	}
	consent, ok := parseConsent(rawConsent)
	if !ok {
		return rec, domain.MalformedRecordError{Row: row, Column: "Consent", Reason: fmt.Sprintf("not a boolean: %q", rawConsent)}
	}
	rec.Consent = consent

	if rec.Priority, err = readInt("Priority"); err != nil {
		return rec, err
	}
	if rec.Physics, err = readInt("Physics"); err != nil {
		return rec, err
	}
	if rec.Russian, err = readInt("Russian"); err != nil {
		return rec, err
	}
	if rec.Math, err = readInt("Math"); err != nil {
		return rec, err
	}
	if rec.Achievements, err = readInt("Achievements"); err != nil {
		return rec, err
	}
	if rec.Total, err = readInt("Total"); err != nil {
		return rec, err
	}
	return rec, nil
}

func parseConsent(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

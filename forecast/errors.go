/*
errors.go - Centralized error types for the forecast engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify failures with errors.Is against the sentinels and
  pull details out of the structured errors with errors.As.

ERROR CATEGORIES:
  1. Invalid argument - bad period count, out-of-range rate, malformed
     or inconsistent date on a record
  2. Schema mismatch  - a table or ledger family lacks a required column

  An empty inflation schedule is NOT an error: it resolves to factor 1.

PROPAGATION:
  Every failure aborts the run. Nothing is skipped or best-effort: a bad
  row in one family fails the whole ledger, and the same input fails the
  same way on every run.

USAGE:
  ledger, err := engine.Run(input)
  var recErr *forecast.RecordError
  if errors.As(err, &recErr) {
      fmt.Println(recErr.Component, recErr.RecordID, recErr.Constraint)
  }

SEE ALSO:
  - normalize.go: Raises RecordError
  - assemble.go:  Raises SchemaError
  - workbook/reader.go: Raises SchemaError for sheets and columns
*/
package forecast

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned for non-positive period counts, negative
	// or out-of-range rates, and malformed or inverted dates.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSchemaMismatch is returned when an input table is missing a required
	// column or the assembler cannot reconcile a family's rows.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RecordError pinpoints the record that failed validation.
type RecordError struct {
	Component  string // "normalizer", "expander", "period generator"...
	Family     Family
	RecordID   string
	Field      string
	Constraint string
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%s: %s record", e.Component, e.Family)
	if e.RecordID != "" {
		msg += " " + e.RecordID
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	return msg + ": " + e.Constraint
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidArgument
}

// SchemaError names the table and column that broke the expected schema.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema mismatch: table %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("schema mismatch: table %s column %s: %s", e.Table, e.Column, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input data.
// A deterministic transform never succeeds on retry with the same input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrSchemaMismatch)
}

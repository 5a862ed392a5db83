/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses via the classifier helpers.

ERROR CATEGORIES:
  1. Parse errors      - malformed shorthand or unusable paste input
  2. Guard errors      - payroll lock and review state machine violations
  3. Validation errors - rejected edits (date out of month, etc.)
  4. Awaiting input    - overtime seed suspension (not a failure)

SEE ALSO:
  - review/machine.go: wraps guard errors with state context
  - api/handlers.go: status-code mapping
*/
package worktime

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidScheduleFormat is returned when any segment of a shorthand
	// input fails to parse. The whole input is rejected; no partial apply.
	ErrInvalidScheduleFormat = errors.New("invalid schedule format")

	// ErrInvalidTimeRange is returned when an edited actual range is not
	// "HH:MM-HH:MM" or "-".
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrPayrollLocked is returned for any attempted mutation of a row or
	// schedule whose month is payroll-confirmed. Distinct from validation
	// errors; surfaced as a guard failure.
	ErrPayrollLocked = errors.New("payroll confirmed: record is locked")

	// ErrDateOutOfMonth is returned when a manual row's date is edited
	// outside the selected month's calendar range.
	ErrDateOutOfMonth = errors.New("date outside selected month")

	// ErrNotManualRow is returned when a date edit targets a generated row.
	ErrNotManualRow = errors.New("date is only editable on manual rows")

	// ErrRowNotFound is returned when a row ID has no persisted record.
	ErrRowNotFound = errors.New("comparison row not found")

	// ErrRunInFlight is returned when a reconciliation run is triggered for
	// an employee/branch/month that already has one in progress.
	ErrRunInFlight = errors.New("reconciliation already running for this key")

	// ErrOvertimeSeedRequired signals that overtime accumulation is
	// suspended until a carried-over seed value is supplied. This is an
	// awaiting-input condition, not a failure, and must never silently
	// default the seed to 0.
	ErrOvertimeSeedRequired = errors.New("carried-over overtime seed required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParseError reports which shorthand segment failed and why.
type ParseError struct {
	Input   string
	Segment string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid schedule format %q: segment %q: %s", e.Input, e.Segment, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidScheduleFormat }

// Hint is the format reminder surfaced next to the rejected input.
func (e *ParseError) Hint() string {
	return "expected H[.F]-H[.F](BREAK)? segments separated by commas, e.g. 10-13,19-23(0.5)"
}

// OverlapWarning is returned when a new schedule entry overlaps another
// entry for the same employee/day, possibly at a different branch. It is a
// warning, not a hard error: the save proceeds once confirmed.
type OverlapWarning struct {
	EmployeeID EmployeeID
	Date       time.Time
	Conflicts  []ScheduleDay
}

func (e *OverlapWarning) Error() string {
	return fmt.Sprintf("schedule overlaps %d existing entries for %s on %s; confirmation required",
		len(e.Conflicts), e.EmployeeID, e.Date.Format("2006-01-02"))
}

// SeedRequiredError identifies which employee's overtime is suspended.
type SeedRequiredError struct {
	EmployeeID EmployeeID
	WeekStart  time.Time
}

func (e *SeedRequiredError) Error() string {
	return fmt.Sprintf("overtime for %s week %s: %v",
		e.EmployeeID, e.WeekStart.Format("2006-01-02"), ErrOvertimeSeedRequired)
}

func (e *SeedRequiredError) Unwrap() error { return ErrOvertimeSeedRequired }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid reviewer input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidScheduleFormat) ||
		errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrDateOutOfMonth) ||
		errors.Is(err, ErrNotManualRow)
}

// IsGuardError reports whether the error is a state-machine guard rejection.
func IsGuardError(err error) bool {
	return errors.Is(err, ErrPayrollLocked)
}

// IsAwaitingInput reports whether the operation is suspended for reviewer
// input rather than failed.
func IsAwaitingInput(err error) bool {
	return errors.Is(err, ErrOvertimeSeedRequired)
}

// IsOverlapWarning extracts an overlap warning if the error is one.
func IsOverlapWarning(err error) (*OverlapWarning, bool) {
	var w *OverlapWarning
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}

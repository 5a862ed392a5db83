/*
session.go - One reconciliation run as an explicit value object

PURPOSE:
  A run's state lives in a serializable ReconciliationSession instead of
  scattered mutable UI state. Pure functions take the session in and
  hand it back; persistence is a separate boundary call at the end.
*/
package worktime

import (
	"context"
	"time"
)

// ReconciliationSession captures the inputs and outputs of a single run for
// one employee/branch/month.
type ReconciliationSession struct {
	EmployeeID    EmployeeID `json:"employee_id"`
	BranchID      BranchID   `json:"branch_id"`
	Month         Month      `json:"month"`
	EmployeeLabel string     `json:"employee_label"`

	ScheduleDays []ScheduleDay         `json:"schedule_days"`
	Attendance   []MergedAttendanceDay `json:"attendance"`
	Rows         []ComparisonRow       `json:"rows"`

	StartedAt time.Time `json:"started_at"`
}

// BuildSession runs the pure pipeline: raw attendance records are merged,
// joined against the month's schedule, and the resulting row set is stored
// on the session. Nothing is persisted.
func BuildSession(employeeID EmployeeID, branchID BranchID, month Month, label string,
	scheduleDays []ScheduleDay, raw []AttendanceRecord, manualRows []ComparisonRow,
	calendar HolidayCalendar, now time.Time) ReconciliationSession {

	merged := MergeDayRecords(raw)
	rows := Reconcile(ReconcileInput{
		EmployeeID:    employeeID,
		BranchID:      branchID,
		Month:         month,
		EmployeeLabel: label,
		ScheduleDays:  scheduleDays,
		Attendance:    merged,
		ManualRows:    manualRows,
		Calendar:      calendar,
		Now:           now,
	})

	return ReconciliationSession{
		EmployeeID:    employeeID,
		BranchID:      branchID,
		Month:         month,
		EmployeeLabel: label,
		ScheduleDays:  scheduleDays,
		Attendance:    merged,
		Rows:          rows,
		StartedAt:     now,
	}
}

// Persist writes the session's rows through the idempotent upsert layer and
// updates the session with the annotated rows.
func (s *ReconciliationSession) Persist(ctx context.Context, store RowStore) error {
	rows, err := PersistRows(ctx, store, s.Rows, s.EmployeeID, s.BranchID, s.Month)
	if err != nil {
		return err
	}
	s.Rows = rows
	return nil
}

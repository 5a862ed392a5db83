/*
store.go - Persistence interfaces for the reconciliation engine

PURPOSE:
  Defines the boundary between the pure computation and storage. The
  engine depends only on these interfaces; SQLite and in-memory
  implementations live under store/.

COMPOSITE KEYS:
  ScheduleDay:   (employee, branch, date), replaced wholesale
  ComparisonRow: synthetic uuid, logically (employee, branch, date, month)

  Writes are always keyed by composite identity, never by array position,
  so an out-of-order completion of a superseded run cannot corrupt a
  later one.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - store/memory: in-memory for engine tests
*/
package worktime

import (
	"context"
	"time"
)

// ScheduleStore persists planned schedule days.
type ScheduleStore interface {
	// ReplaceDay deletes any existing segments for the day's
	// employee/branch/date and writes the new ones atomically.
	ReplaceDay(ctx context.Context, day ScheduleDay) error

	// ListMonth returns the employee's schedule days at a branch for a month,
	// ordered by date.
	ListMonth(ctx context.Context, employeeID EmployeeID, branchID BranchID, month Month) ([]ScheduleDay, error)

	// ListByEmployeeDate returns all schedule days for an employee on a date
	// across every branch. Used for the overlap warning.
	ListByEmployeeDate(ctx context.Context, employeeID EmployeeID, date time.Time) ([]ScheduleDay, error)

	// DeleteDay removes the planned entry for one employee/branch/date.
	DeleteDay(ctx context.Context, employeeID EmployeeID, branchID BranchID, date time.Time) error
}

// RowStore persists comparison rows.
type RowStore interface {
	Get(ctx context.Context, id string) (*ComparisonRow, error)

	// ListMonth returns all rows for an employee/branch/month, ordered by date.
	ListMonth(ctx context.Context, employeeID EmployeeID, branchID BranchID, month Month) ([]ComparisonRow, error)

	// ListManual returns only the IsManual rows for an employee/branch/month.
	ListManual(ctx context.Context, employeeID EmployeeID, branchID BranchID, month Month) ([]ComparisonRow, error)

	// Upsert writes a row by its ID, inserting or updating.
	Upsert(ctx context.Context, row ComparisonRow) error

	Delete(ctx context.Context, id string) error
}

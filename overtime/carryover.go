/*
Package overtime implements the weekly overtime carryover calculator.

PURPOSE:
  For contract types that track overtime, hours worked beyond the
  contractual weekly hours roll forward week to week:

    accumulated(w) = accumulated(w-1) + max(0, actual(w) - contractual)

  The very first week an employee is tracked there is no prior record.
  Computation then SUSPENDS and asks the reviewer for a one-time
  carried-over seed from the prior period. The seed is never defaulted
  to zero and never asked again once supplied.

SEE ALSO:
  - worktime/errors.go: ErrOvertimeSeedRequired / SeedRequiredError
*/
package overtime

import (
	"context"
	"time"

	"github.com/shiftwise/worktime-engine/worktime"
)

// Record is one employee week. CurrentWeekOvertime is the week's own excess;
// Accumulated includes everything carried forward.
type Record struct {
	EmployeeID          worktime.EmployeeID
	WeekStart           time.Time
	ActualWorkHours     worktime.Hours
	ContractualHours    worktime.Hours
	CurrentWeekOvertime worktime.Hours
	Accumulated         worktime.Hours
	CreatedAt           time.Time
}

// Store persists weekly records and one-time seeds.
type Store interface {
	// GetWeek returns nil when the employee has no record for the week.
	GetWeek(ctx context.Context, employeeID worktime.EmployeeID, weekStart time.Time) (*Record, error)
	SaveWeek(ctx context.Context, rec Record) error
	// ListRange returns records with WeekStart in [from, to], ordered ascending.
	ListRange(ctx context.Context, employeeID worktime.EmployeeID, from, to time.Time) ([]Record, error)

	// GetSeed returns (seed, true) once a carried-over value was supplied.
	GetSeed(ctx context.Context, employeeID worktime.EmployeeID) (worktime.Hours, bool, error)
	// SaveSeed stores the one-time seed. Saving again is a no-op; the first
	// supplied value is the basis for all subsequent weeks.
	SaveSeed(ctx context.Context, employeeID worktime.EmployeeID, seed worktime.Hours) error
}

// Calculator accumulates weekly overtime over a Store.
type Calculator struct {
	store Store
}

func NewCalculator(store Store) *Calculator {
	return &Calculator{store: store}
}

// WeekStart normalizes any time to the Monday of its week, midnight UTC.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}

// Accumulate computes and persists one week. The base is the prior week's
// accumulated value; with no prior week it is the employee's seed, and with
// no seed either the computation suspends with a SeedRequiredError instead
// of proceeding from zero.
func (c *Calculator) Accumulate(ctx context.Context, employeeID worktime.EmployeeID, weekStart time.Time, actual, contractual worktime.Hours) (Record, error) {
	weekStart = WeekStart(weekStart)

	base, err := c.baseFor(ctx, employeeID, weekStart)
	if err != nil {
		return Record{}, err
	}

	excess := actual.Sub(contractual).FloorZero()
	rec := Record{
		EmployeeID:          employeeID,
		WeekStart:           weekStart,
		ActualWorkHours:     actual,
		ContractualHours:    contractual,
		CurrentWeekOvertime: excess,
		Accumulated:         base.Add(excess),
		CreatedAt:           time.Now().UTC(),
	}
	if err := c.store.SaveWeek(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (c *Calculator) baseFor(ctx context.Context, employeeID worktime.EmployeeID, weekStart time.Time) (worktime.Hours, error) {
	prior, err := c.store.GetWeek(ctx, employeeID, weekStart.AddDate(0, 0, -7))
	if err != nil {
		return worktime.Hours{}, err
	}
	if prior != nil {
		return prior.Accumulated, nil
	}

	seed, ok, err := c.store.GetSeed(ctx, employeeID)
	if err != nil {
		return worktime.Hours{}, err
	}
	if !ok {
		return worktime.Hours{}, &worktime.SeedRequiredError{EmployeeID: employeeID, WeekStart: weekStart}
	}
	return seed, nil
}

// SupplySeed records the reviewer's one-time carried-over value and resumes
// any suspended computation on the next Accumulate call.
func (c *Calculator) SupplySeed(ctx context.Context, employeeID worktime.EmployeeID, seed worktime.Hours) error {
	return c.store.SaveSeed(ctx, employeeID, seed)
}

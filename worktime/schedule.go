/*
schedule.go - Shorthand cell entry

PURPOSE:
  Saving a schedule cell: parse the shorthand, compute the derived
  total, warn on overlap with existing entries for the same employee/day
  (including other branches), and replace the stored day atomically.
  Malformed input rejects the save and leaves the prior persisted
  schedule untouched.

LOCKING:
  Once payroll for the month is confirmed the day is immutable. The
  review state machine owns that decision; this service only asks.
*/
package worktime

import (
	"context"
	"time"
)

// LockChecker answers whether a month is payroll-locked. Implemented by the
// review package; an interface here keeps the dependency pointing one way.
type LockChecker interface {
	IsPayrollLocked(ctx context.Context, employeeID EmployeeID, branchID BranchID, month Month) (bool, error)
}

// ScheduleService saves and lists planned schedule days.
type ScheduleService struct {
	Store ScheduleStore
	Locks LockChecker
}

func NewScheduleService(store ScheduleStore, locks LockChecker) *ScheduleService {
	return &ScheduleService{Store: store, Locks: locks}
}

// SaveShorthand parses and persists one cell. With confirmOverlap=false, an
// overlap with any other entry for the same employee/day returns an
// OverlapWarning and nothing is written; re-submitting with
// confirmOverlap=true always proceeds.
func (s *ScheduleService) SaveShorthand(ctx context.Context, employeeID EmployeeID, branchID BranchID, date time.Time, input string, confirmOverlap bool) (ScheduleDay, error) {
	segments, err := ParseScheduleShorthand(input)
	if err != nil {
		return ScheduleDay{}, err
	}

	locked, err := s.Locks.IsPayrollLocked(ctx, employeeID, branchID, MonthOf(date))
	if err != nil {
		return ScheduleDay{}, err
	}
	if locked {
		return ScheduleDay{}, ErrPayrollLocked
	}

	day := ScheduleDay{
		EmployeeID: employeeID,
		BranchID:   branchID,
		Date:       date,
		Segments:   segments,
		InputEcho:  input,
	}
	day.TotalHours = TotalScheduleHours(day)

	if !confirmOverlap {
		conflicts, err := s.findOverlaps(ctx, day)
		if err != nil {
			return ScheduleDay{}, err
		}
		if len(conflicts) > 0 {
			return ScheduleDay{}, &OverlapWarning{EmployeeID: employeeID, Date: date, Conflicts: conflicts}
		}
	}

	if err := s.Store.ReplaceDay(ctx, day); err != nil {
		return ScheduleDay{}, err
	}
	return day, nil
}

// findOverlaps checks the new day's segments against every other entry for
// the same employee/date, across branches. The entry being replaced (same
// branch) is not a conflict with itself.
func (s *ScheduleService) findOverlaps(ctx context.Context, day ScheduleDay) ([]ScheduleDay, error) {
	others, err := s.Store.ListByEmployeeDate(ctx, day.EmployeeID, day.Date)
	if err != nil {
		return nil, err
	}

	var conflicts []ScheduleDay
	for _, other := range others {
		if other.BranchID == day.BranchID {
			continue
		}
		if segmentsOverlap(day.Segments, other.Segments) {
			conflicts = append(conflicts, other)
		}
	}
	return conflicts, nil
}

func segmentsOverlap(a, b []TimeSegment) bool {
	for _, sa := range a {
		for _, sb := range b {
			if intervalsOverlap(sa, sb) {
				return true
			}
		}
	}
	return false
}

// intervalsOverlap compares two segments on an unwrapped minute axis so an
// overnight "22-6" collides with both "23-24" and "5-9".
func intervalsOverlap(a, b TimeSegment) bool {
	aStart, aEnd := unwrap(a)
	bStart, bEnd := unwrap(b)
	if overlaps(aStart, aEnd, bStart, bEnd) {
		return true
	}
	// Shift each by a day to catch wrap-around collisions.
	return overlaps(aStart+minutesPerDay, aEnd+minutesPerDay, bStart, bEnd) ||
		overlaps(aStart, aEnd, bStart+minutesPerDay, bEnd+minutesPerDay)
}

func unwrap(seg TimeSegment) (int, int) {
	start, end := int(seg.Start), int(seg.End)
	if end < start {
		end += minutesPerDay
	}
	return start, end
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

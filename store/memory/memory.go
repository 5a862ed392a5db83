// Package memory provides in-memory store implementations (for testing/dev).
// Each domain interface gets its own small type; production code uses the
// sqlite equivalents.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shiftwise/worktime-engine/overtime"
	"github.com/shiftwise/worktime-engine/review"
	"github.com/shiftwise/worktime-engine/worktime"
)

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

// =============================================================================
// SCHEDULE STORE (worktime.ScheduleStore)
// =============================================================================

type ScheduleStore struct {
	mu   sync.RWMutex
	days map[scheduleKey]worktime.ScheduleDay
}

type scheduleKey struct {
	EmployeeID worktime.EmployeeID
	BranchID   worktime.BranchID
	Date       string
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{days: make(map[scheduleKey]worktime.ScheduleDay)}
}

func (s *ScheduleStore) ReplaceDay(_ context.Context, day worktime.ScheduleDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[scheduleKey{day.EmployeeID, day.BranchID, dayKey(day.Date)}] = day
	return nil
}

func (s *ScheduleStore) ListMonth(_ context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) ([]worktime.ScheduleDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []worktime.ScheduleDay
	for _, day := range s.days {
		if day.EmployeeID == employeeID && day.BranchID == branchID && worktime.MonthOf(day.Date) == month {
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *ScheduleStore) ListByEmployeeDate(_ context.Context, employeeID worktime.EmployeeID, date time.Time) ([]worktime.ScheduleDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []worktime.ScheduleDay
	for _, day := range s.days {
		if day.EmployeeID == employeeID && dayKey(day.Date) == dayKey(date) {
			out = append(out, day)
		}
	}
	return out, nil
}

func (s *ScheduleStore) DeleteDay(_ context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.days, scheduleKey{employeeID, branchID, dayKey(date)})
	return nil
}

// =============================================================================
// ROW STORE (worktime.RowStore)
// =============================================================================

type RowStore struct {
	mu   sync.RWMutex
	rows map[string]worktime.ComparisonRow
}

func NewRowStore() *RowStore {
	return &RowStore{rows: make(map[string]worktime.ComparisonRow)}
}

func (s *RowStore) Get(_ context.Context, id string) (*worktime.ComparisonRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row, ok := s.rows[id]; ok {
		copied := row
		return &copied, nil
	}
	return nil, nil
}

func (s *RowStore) ListMonth(_ context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) ([]worktime.ComparisonRow, error) {
	return s.list(employeeID, branchID, month, false), nil
}

func (s *RowStore) ListManual(_ context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) ([]worktime.ComparisonRow, error) {
	return s.list(employeeID, branchID, month, true), nil
}

func (s *RowStore) list(employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month, manualOnly bool) []worktime.ComparisonRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []worktime.ComparisonRow
	for _, row := range s.rows {
		if row.EmployeeID != employeeID || row.BranchID != branchID || row.Month != month {
			continue
		}
		if manualOnly && !row.IsManual {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *RowStore) Upsert(_ context.Context, row worktime.ComparisonRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.ID] = row
	return nil
}

func (s *RowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// Count reports the number of persisted rows (test helper).
func (s *RowStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// =============================================================================
// REVIEW STORE (review.Store)
// =============================================================================

type ReviewStore struct {
	mu       sync.RWMutex
	statuses map[string]review.Status
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{statuses: make(map[string]review.Status)}
}

func (s *ReviewStore) Get(_ context.Context, key review.Key) (*review.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.statuses[key.ID()]; ok {
		copied := status
		return &copied, nil
	}
	return nil, nil
}

func (s *ReviewStore) Save(_ context.Context, status review.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.Key.ID()] = status
	return nil
}

func (s *ReviewStore) ListMonth(_ context.Context, branchID worktime.BranchID, month worktime.Month) ([]review.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []review.Status
	for _, status := range s.statuses {
		if status.Key.BranchID == branchID && status.Key.Month == month {
			out = append(out, status)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.ID() < out[j].Key.ID() })
	return out, nil
}

// =============================================================================
// OVERTIME STORE (overtime.Store)
// =============================================================================

type OvertimeStore struct {
	mu    sync.RWMutex
	weeks map[weekKey]overtime.Record
	seeds map[worktime.EmployeeID]worktime.Hours
}

type weekKey struct {
	EmployeeID worktime.EmployeeID
	WeekStart  string
}

func NewOvertimeStore() *OvertimeStore {
	return &OvertimeStore{
		weeks: make(map[weekKey]overtime.Record),
		seeds: make(map[worktime.EmployeeID]worktime.Hours),
	}
}

func (s *OvertimeStore) GetWeek(_ context.Context, employeeID worktime.EmployeeID, weekStart time.Time) (*overtime.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.weeks[weekKey{employeeID, dayKey(weekStart)}]; ok {
		copied := rec
		return &copied, nil
	}
	return nil, nil
}

func (s *OvertimeStore) SaveWeek(_ context.Context, rec overtime.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weeks[weekKey{rec.EmployeeID, dayKey(rec.WeekStart)}] = rec
	return nil
}

func (s *OvertimeStore) ListRange(_ context.Context, employeeID worktime.EmployeeID, from, to time.Time) ([]overtime.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []overtime.Record
	for _, rec := range s.weeks {
		if rec.EmployeeID == employeeID && !rec.WeekStart.Before(from) && !rec.WeekStart.After(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

func (s *OvertimeStore) GetSeed(_ context.Context, employeeID worktime.EmployeeID) (worktime.Hours, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seed, ok := s.seeds[employeeID]
	return seed, ok, nil
}

func (s *OvertimeStore) SaveSeed(_ context.Context, employeeID worktime.EmployeeID, seed worktime.Hours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.seeds[employeeID]; exists {
		return nil // the first supplied value is the permanent basis
	}
	s.seeds[employeeID] = seed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR (worktime.HolidayCalendar, read-only)
// =============================================================================

type Calendar struct {
	mu   sync.RWMutex
	days map[string]bool
}

func NewCalendar(dates ...time.Time) *Calendar {
	c := &Calendar{days: make(map[string]bool)}
	for _, d := range dates {
		c.days[dayKey(d)] = true
	}
	return c
}

func (c *Calendar) IsHoliday(date time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.days[dayKey(date)]
}

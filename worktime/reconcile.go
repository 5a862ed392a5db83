/*
reconcile.go - The plan-vs-actual join

PURPOSE:
  The central algorithm. Joins one employee/branch/month of planned
  schedule days against the merged attendance feed and emits one
  ComparisonRow per day with a derived status.

RE-RUN SEMANTICS:
  A run fully recomputes GENERATED rows but is additive-preserving for
  manual rows: rows the reviewer added by hand are re-attached unchanged
  and are never regenerated or deleted by a run. Reviewer edits to
  generated rows survive through the upsert layer (persist.go), which
  writes by composite identity instead of wiping and reinserting.

STATUS DERIVATION:
  |actual - scheduled| >= 0.17h (ten minutes) => review_required,
  boundary inclusive. Otherwise time_match. review_completed is only
  ever set by an explicit reviewer action, never derived.

SEE ALSO:
  - session.go: the value object carrying a run's inputs and outputs
  - persist.go: idempotent persistence of the emitted rows
*/
package worktime

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReconcileInput carries everything a run needs. No ambient state: the
// selected employee/branch/month are explicit parameters.
type ReconcileInput struct {
	EmployeeID    EmployeeID
	BranchID      BranchID
	Month         Month
	EmployeeLabel string

	ScheduleDays []ScheduleDay
	Attendance   []MergedAttendanceDay

	// ManualRows are previously persisted rows with IsManual=true for this
	// employee/branch/month. They pass through unchanged.
	ManualRows []ComparisonRow

	Calendar HolidayCalendar
	Now      time.Time
}

// Reconcile joins planned and actual days and returns the full row set for
// the month, sorted by date ascending.
func Reconcile(in ReconcileInput) []ComparisonRow {
	cal := in.Calendar
	if cal == nil {
		cal = NoHolidays{}
	}

	grouped := groupScheduleDays(in.ScheduleDays)
	attendanceByDate := make(map[time.Time]MergedAttendanceDay, len(in.Attendance))
	for _, day := range in.Attendance {
		attendanceByDate[day.Date] = day
	}

	var rows []ComparisonRow
	matched := make(map[time.Time]bool)

	for _, sched := range grouped {
		row := ComparisonRow{
			EmployeeID:         in.EmployeeID,
			BranchID:           in.BranchID,
			Date:               sched.Date,
			Month:              in.Month,
			EmployeeLabel:      in.EmployeeLabel,
			ScheduledHours:     sched.TotalHours,
			ScheduledRangeText: sched.RangeText(),
			Status:             StatusReviewRequired,
			IsHoliday:          cal.IsHoliday(sched.Date),
			CreatedAt:          in.Now,
			UpdatedAt:          in.Now,
		}

		if actual, ok := attendanceByDate[sched.Date]; ok {
			matched[sched.Date] = true
			row.ActualRangeText = actual.RangeText()
			row.PosRangeText = actual.RangeText()
			if actual.IsMultipleRecords {
				row.ActualBreak = actual.InferredBreak
			} else if !actual.InferredBreak.IsZero() {
				row.ActualBreak = actual.InferredBreak
			} else {
				// Single clean punch pair: assume the schedule's declared break.
				row.ActualBreak = sched.DeclaredBreak()
			}
			gross := HoursFromMinutes(int(actual.End.Sub(actual.Start).Minutes()))
			row.ActualWorkHours = gross.Sub(row.ActualBreak).FloorZero()
			row.Difference = row.ActualWorkHours.Sub(row.ScheduledHours)
			row.Status = DeriveStatus(row.Difference)
		} else {
			// Planned but never showed up.
			row.ActualRangeText = "-"
			row.ActualWorkHours = ZeroHours()
			row.Difference = row.ScheduledHours.Neg()
			row.Status = StatusReviewRequired
		}

		rows = append(rows, row)
	}

	// Attendance with no matching schedule: worked without a plan.
	for _, actual := range in.Attendance {
		if matched[actual.Date] {
			continue
		}
		gross := HoursFromMinutes(int(actual.End.Sub(actual.Start).Minutes()))
		work := gross.Sub(actual.InferredBreak).FloorZero()
		rows = append(rows, ComparisonRow{
			EmployeeID:      in.EmployeeID,
			BranchID:        in.BranchID,
			Date:            actual.Date,
			Month:           in.Month,
			EmployeeLabel:   in.EmployeeLabel,
			ScheduledHours:  ZeroHours(),
			ScheduledRangeText: "-",
			ActualRangeText: actual.RangeText(),
			PosRangeText:    actual.RangeText(),
			ActualBreak:     actual.InferredBreak,
			ActualWorkHours: work,
			Difference:      work,
			Status:          StatusReviewRequired,
			IsHoliday:       cal.IsHoliday(actual.Date),
			CreatedAt:       in.Now,
			UpdatedAt:       in.Now,
		})
	}

	rows = dedupeRows(rows)

	// Manual rows pass through untouched, keyed by their own date.
	rows = append(rows, in.ManualRows...)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// groupScheduleDays folds same-day double bookings for one employee/branch
// into a single logical day: ranges concatenated with commas, hours summed.
func groupScheduleDays(days []ScheduleDay) []ScheduleDay {
	byDate := make(map[time.Time]*ScheduleDay)
	var order []time.Time
	for _, day := range days {
		if existing, ok := byDate[day.Date]; ok {
			existing.Segments = append(existing.Segments, day.Segments...)
			existing.TotalHours = existing.TotalHours.Add(day.TotalHours)
			continue
		}
		copied := day
		copied.Segments = append([]TimeSegment(nil), day.Segments...)
		byDate[day.Date] = &copied
		order = append(order, day.Date)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	out := make([]ScheduleDay, 0, len(order))
	for _, date := range order {
		out = append(out, *byDate[date])
	}
	return out
}

// dedupeRows drops colliding rows for the same (date, branch tag of the
// employee label), preferring the one that carries an actual time range.
func dedupeRows(rows []ComparisonRow) []ComparisonRow {
	type rowKey struct {
		date time.Time
		tag  string
	}
	seen := make(map[rowKey]int)
	var out []ComparisonRow
	for _, row := range rows {
		k := rowKey{date: row.Date, tag: branchTag(row)}
		if idx, ok := seen[k]; ok {
			if !hasActualRange(out[idx]) && hasActualRange(row) {
				out[idx] = row
			}
			continue
		}
		seen[k] = len(out)
		out = append(out, row)
	}
	return out
}

// branchTag extracts the parenthesized branch suffix from the employee
// label ("김유진(강남)" -> "강남"), falling back to the branch ID.
func branchTag(row ComparisonRow) string {
	label := row.EmployeeLabel
	if open := strings.LastIndex(label, "("); open >= 0 && strings.HasSuffix(label, ")") {
		return label[open+1 : len(label)-1]
	}
	return string(row.BranchID)
}

func hasActualRange(row ComparisonRow) bool {
	return row.ActualRangeText != "" && row.ActualRangeText != "-"
}

// =============================================================================
// MANUAL ROWS
// =============================================================================

// AddManualRow creates a zeroed reviewer-added row dated the 1st of the
// target month. The reviewer then edits date and actual range directly.
func AddManualRow(employeeID EmployeeID, branchID BranchID, month Month, now time.Time) (ComparisonRow, error) {
	first, err := month.FirstDay()
	if err != nil {
		return ComparisonRow{}, err
	}
	return ComparisonRow{
		ID:                 uuid.NewString(),
		EmployeeID:         employeeID,
		BranchID:           branchID,
		Date:               first,
		Month:              month,
		ScheduledRangeText: "-",
		ActualRangeText:    "-",
		Status:             StatusReviewRequired,
		IsManual:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// =============================================================================
// REVIEWER EDITS
// =============================================================================

// RowEdit carries the editable fields of a row. Nil means unchanged.
type RowEdit struct {
	ActualRangeText *string
	ActualBreak     *Hours
	Date            *time.Time // manual rows only
	Status          *RowStatus
}

// ApplyEdit mutates an unlocked row and recomputes the derived fields with
// the same formulas as a reconciliation run. The caller enforces the payroll
// lock before getting here.
func ApplyEdit(row ComparisonRow, edit RowEdit, now time.Time) (ComparisonRow, error) {
	if edit.Date != nil {
		if !row.IsManual {
			return row, ErrNotManualRow
		}
		if !row.Month.Contains(*edit.Date) {
			// Out-of-range date edits are rejected; the stored row stays put.
			return row, ErrDateOutOfMonth
		}
		row.Date = *edit.Date
	}
	if edit.ActualRangeText != nil {
		row.ActualRangeText = strings.TrimSpace(*edit.ActualRangeText)
	}
	if edit.ActualBreak != nil {
		row.ActualBreak = *edit.ActualBreak
	}

	if err := recomputeRow(&row); err != nil {
		return row, err
	}

	if edit.Status != nil {
		row.Status = *edit.Status
	}
	row.IsModified = true
	row.UpdatedAt = now
	return row, nil
}

// CopyScheduleTime sets the actuals from the planned schedule and forces an
// explicit acknowledgment status: time_match when already matching,
// review_completed otherwise. The completed status is a reviewer statement,
// not something derived from a zero difference.
func CopyScheduleTime(row ComparisonRow, declaredBreak Hours, now time.Time) (ComparisonRow, error) {
	prior := row.Status
	row.ActualRangeText = row.ScheduledRangeText
	row.ActualBreak = declaredBreak
	if err := recomputeRow(&row); err != nil {
		return row, err
	}
	if prior != StatusTimeMatch {
		row.Status = StatusReviewCompleted
	}
	row.IsModified = true
	row.UpdatedAt = now
	return row, nil
}

func recomputeRow(row *ComparisonRow) error {
	rangeHours, present, err := ParseTimeRange(row.ActualRangeText)
	if err != nil {
		return err
	}
	if !present {
		row.ActualWorkHours = ZeroHours()
	} else {
		row.ActualWorkHours = rangeHours.Sub(row.ActualBreak).FloorZero()
	}
	row.Difference = row.ActualWorkHours.Sub(row.ScheduledHours)
	row.Status = DeriveStatus(row.Difference)
	return nil
}

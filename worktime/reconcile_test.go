/*
reconcile_test.go - Plan-vs-actual join tests

Covers the join itself (match, no-show, unplanned work), status
derivation at the review threshold boundary, same-day double-booking
grouping, manual-row passthrough, and reviewer edits.
*/
package worktime_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/worktime-engine/store/memory"
	"github.com/shiftwise/worktime-engine/worktime"
)

const (
	testEmployee = worktime.EmployeeID("emp-1")
	testBranch   = worktime.BranchID("br-gangnam")
	testMonth    = worktime.Month("2026-01")
)

func scheduledDay(t *testing.T, day, input string) worktime.ScheduleDay {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	d := worktime.ScheduleDay{
		EmployeeID: testEmployee,
		BranchID:   testBranch,
		Date:       date,
		Segments:   mustSegments(t, input),
		InputEcho:  input,
	}
	d.TotalHours = worktime.TotalScheduleHours(d)
	return d
}

func runReconcile(t *testing.T, days []worktime.ScheduleDay, records []worktime.AttendanceRecord, manual []worktime.ComparisonRow) []worktime.ComparisonRow {
	t.Helper()
	return worktime.Reconcile(worktime.ReconcileInput{
		EmployeeID:    testEmployee,
		BranchID:      testBranch,
		Month:         testMonth,
		EmployeeLabel: "김유진(강남)",
		ScheduleDays:  days,
		Attendance:    worktime.MergeDayRecords(records),
		ManualRows:    manual,
		Now:           time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})
}

// =============================================================================
// THE JOIN
// =============================================================================

func TestReconcile_MatchingDayIsTimeMatch(t *testing.T) {
	// GIVEN: Planned 10-18(1) = 7h, punched 10:00-18:00 with net 7h
	rec := punch(t, "2026-01-05", "10:00", "18:00")
	net := worktime.HoursFromFloat(7)
	rec.NetHours = &net

	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18(1)")},
		[]worktime.AttendanceRecord{rec}, nil)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, worktime.StatusTimeMatch, row.Status)
	assert.Equal(t, float64(7), row.ActualWorkHours.Float64())
	assert.Equal(t, float64(1), row.ActualBreak.Float64())
	assert.True(t, row.Difference.IsZero())
	assert.Equal(t, "10:00-18:00", row.PosRangeText)
}

func TestReconcile_CleanPunchAssumesDeclaredBreak(t *testing.T) {
	// GIVEN: Planned 10-22(2), a single punch pair with no net-hours column
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-22(2)")},
		[]worktime.AttendanceRecord{punch(t, "2026-01-05", "10:00", "22:00")}, nil)
	require.Len(t, rows, 1)

	// THEN: The schedule's declared break is assumed for the actuals
	row := rows[0]
	assert.Equal(t, float64(2), row.ActualBreak.Float64())
	assert.Equal(t, float64(10), row.ActualWorkHours.Float64())
	assert.Equal(t, worktime.StatusTimeMatch, row.Status)
}

func TestReconcile_NoShowNeedsReview(t *testing.T) {
	// GIVEN: A planned day with no attendance at all
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18")}, nil, nil)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "-", row.ActualRangeText)
	assert.True(t, row.ActualWorkHours.IsZero())
	assert.Equal(t, float64(-8), row.Difference.Float64())
	assert.Equal(t, worktime.StatusReviewRequired, row.Status)
}

func TestReconcile_UnplannedWorkNeedsReview(t *testing.T) {
	// GIVEN: Attendance on a day with no schedule
	rows := runReconcile(t, nil,
		[]worktime.AttendanceRecord{punch(t, "2026-01-10", "09:00", "14:00")}, nil)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.True(t, row.ScheduledHours.IsZero())
	assert.Equal(t, "-", row.ScheduledRangeText)
	assert.Equal(t, float64(5), row.ActualWorkHours.Float64())
	assert.Equal(t, worktime.StatusReviewRequired, row.Status)
}

func TestReconcile_DoubleBookingGroupsIntoOneRow(t *testing.T) {
	// GIVEN: Two schedule entries for the same employee/branch/date
	rows := runReconcile(t, []worktime.ScheduleDay{
		scheduledDay(t, "2026-01-05", "10-13"),
		scheduledDay(t, "2026-01-05", "19-23"),
	}, nil, nil)
	require.Len(t, rows, 1)

	assert.Equal(t, float64(7), rows[0].ScheduledHours.Float64())
	assert.Equal(t, "10:00-13:00,19:00-23:00", rows[0].ScheduledRangeText)
}

func TestReconcile_ManualRowsPassThroughUnchanged(t *testing.T) {
	// GIVEN: A previously persisted manual row
	manual, err := worktime.AddManualRow(testEmployee, testBranch, testMonth, time.Now().UTC())
	require.NoError(t, err)
	manual.ActualRangeText = "11:00-15:00"

	// WHEN: A run regenerates everything else
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18")},
		nil, []worktime.ComparisonRow{manual})
	require.Len(t, rows, 2)

	// THEN: The manual row is re-attached byte for byte
	var found *worktime.ComparisonRow
	for i := range rows {
		if rows[i].IsManual {
			found = &rows[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, manual.ID, found.ID)
	assert.Equal(t, "11:00-15:00", found.ActualRangeText)
}

func TestReconcile_FlagsHolidays(t *testing.T) {
	// GIVEN: A holiday calendar marking Jan 5th
	holiday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	rows := worktime.Reconcile(worktime.ReconcileInput{
		EmployeeID:   testEmployee,
		BranchID:     testBranch,
		Month:        testMonth,
		ScheduleDays: []worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18"), scheduledDay(t, "2026-01-06", "10-18")},
		Calendar:     memory.NewCalendar(holiday),
		Now:          time.Now().UTC(),
	})
	require.Len(t, rows, 2)

	assert.True(t, rows[0].IsHoliday)
	assert.False(t, rows[1].IsHoliday)
}

// =============================================================================
// STATUS DERIVATION
// =============================================================================

func TestDeriveStatus_ThresholdBoundaryIsInclusive(t *testing.T) {
	// GIVEN: |difference| exactly at the 0.17h threshold
	// THEN: review_required - the boundary itself triggers
	assert.Equal(t, worktime.StatusReviewRequired, worktime.DeriveStatus(worktime.HoursFromFloat(0.17)))
	assert.Equal(t, worktime.StatusReviewRequired, worktime.DeriveStatus(worktime.HoursFromFloat(-0.17)))

	// Just under stays a match
	assert.Equal(t, worktime.StatusTimeMatch, worktime.DeriveStatus(worktime.HoursFromFloat(0.1667)))
	assert.Equal(t, worktime.StatusTimeMatch, worktime.DeriveStatus(worktime.HoursFromFloat(-0.1667)))
}

// =============================================================================
// MANUAL ROWS AND EDITS
// =============================================================================

func TestAddManualRow_DatedFirstOfMonth(t *testing.T) {
	now := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	row, err := worktime.AddManualRow(testEmployee, testBranch, testMonth, now)
	require.NoError(t, err)

	assert.NotEmpty(t, row.ID)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), row.Date)
	assert.True(t, row.IsManual)
	assert.Equal(t, worktime.StatusReviewRequired, row.Status)
}

func TestApplyEdit_RangeEditRecomputesDerivedFields(t *testing.T) {
	// GIVEN: A generated row planned at 8h
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18")}, nil, nil)
	row := rows[0]

	// WHEN: The reviewer fills in the actual range and a 0.5h break
	newRange := "10:00-18:00"
	br := worktime.HoursFromFloat(0.5)
	edited, err := worktime.ApplyEdit(row, worktime.RowEdit{
		ActualRangeText: &newRange,
		ActualBreak:     &br,
	}, time.Now().UTC())
	require.NoError(t, err)

	// THEN: Work, difference, and status come from the same formulas as a run
	assert.Equal(t, 7.5, edited.ActualWorkHours.Float64())
	assert.Equal(t, -0.5, edited.Difference.Float64())
	assert.Equal(t, worktime.StatusReviewRequired, edited.Status)
	assert.True(t, edited.IsModified)
}

func TestApplyEdit_DateOnlyEditableOnManualRows(t *testing.T) {
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18")}, nil, nil)
	generated := rows[0]

	newDate := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	_, err := worktime.ApplyEdit(generated, worktime.RowEdit{Date: &newDate}, time.Now().UTC())
	assert.True(t, errors.Is(err, worktime.ErrNotManualRow))
}

func TestApplyEdit_RejectsDateOutsideMonth(t *testing.T) {
	manual, err := worktime.AddManualRow(testEmployee, testBranch, testMonth, time.Now().UTC())
	require.NoError(t, err)

	// WHEN: Moving the manual row into February
	outside := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	updated, err := worktime.ApplyEdit(manual, worktime.RowEdit{Date: &outside}, time.Now().UTC())

	// THEN: Rejected, and the row's stored date is untouched
	assert.True(t, errors.Is(err, worktime.ErrDateOutOfMonth))
	assert.Equal(t, manual.Date, updated.Date)
}

func TestApplyEdit_RejectsMalformedRange(t *testing.T) {
	manual, err := worktime.AddManualRow(testEmployee, testBranch, testMonth, time.Now().UTC())
	require.NoError(t, err)

	bad := "10am to 6pm"
	_, err = worktime.ApplyEdit(manual, worktime.RowEdit{ActualRangeText: &bad}, time.Now().UTC())
	assert.True(t, errors.Is(err, worktime.ErrInvalidTimeRange))
}

func TestCopyScheduleTime_MismatchBecomesReviewCompleted(t *testing.T) {
	// GIVEN: A no-show row
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18(1)")}, nil, nil)
	row := rows[0]
	require.Equal(t, worktime.StatusReviewRequired, row.Status)

	// WHEN: Copying the planned time into the actuals
	updated, err := worktime.CopyScheduleTime(row, worktime.HoursFromFloat(1), time.Now().UTC())
	require.NoError(t, err)

	// THEN: Actuals equal the plan and the row is explicitly acknowledged
	assert.Equal(t, row.ScheduledRangeText, updated.ActualRangeText)
	assert.True(t, updated.Difference.IsZero())
	assert.True(t, updated.IsModified)
	// A zero difference would derive time_match; review_completed is the
	// reviewer's explicit statement on a previously mismatched row.
	assert.Equal(t, worktime.StatusReviewCompleted, updated.Status)
}

func TestCopyScheduleTime_AlreadyMatchingStaysTimeMatch(t *testing.T) {
	rec := punch(t, "2026-01-05", "10:00", "18:00")
	rows := runReconcile(t,
		[]worktime.ScheduleDay{scheduledDay(t, "2026-01-05", "10-18")},
		[]worktime.AttendanceRecord{rec}, nil)
	row := rows[0]
	require.Equal(t, worktime.StatusTimeMatch, row.Status)

	updated, err := worktime.CopyScheduleTime(row, worktime.ZeroHours(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, worktime.StatusTimeMatch, updated.Status)
}

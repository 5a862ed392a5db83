/*
merge_test.go - Same-day punch merging tests
*/
package worktime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/worktime-engine/worktime"
)

func punch(t *testing.T, day string, start, end string) worktime.AttendanceRecord {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	s, err := time.Parse("2006-01-02 15:04", day+" "+start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02 15:04", day+" "+end)
	require.NoError(t, err)
	return worktime.AttendanceRecord{Date: date, Start: s, End: e, Layout: worktime.LayoutNew}
}

func TestMerge_SingleRecordPassesThrough(t *testing.T) {
	merged := worktime.MergeDayRecords([]worktime.AttendanceRecord{
		punch(t, "2026-01-05", "09:00", "18:00"),
	})
	require.Len(t, merged, 1)

	day := merged[0]
	assert.False(t, day.IsMultipleRecords)
	assert.Equal(t, "09:00-18:00", day.RangeText())
	assert.True(t, day.InferredBreak.IsZero())
}

func TestMerge_SingleRecordCarriesLayoutBreak(t *testing.T) {
	// GIVEN: One punch pair with a 9h span but 8h pre-computed net
	rec := punch(t, "2026-01-05", "09:00", "18:00")
	net := worktime.HoursFromFloat(8)
	rec.NetHours = &net

	merged := worktime.MergeDayRecords([]worktime.AttendanceRecord{rec})
	require.Len(t, merged, 1)

	// THEN: The gross-minus-net difference becomes the break
	assert.Equal(t, float64(1), merged[0].InferredBreak.Float64())
}

func TestMerge_SplitShiftInfersBreakFromGap(t *testing.T) {
	// GIVEN: 09:00-12:00 and 13:30-18:00 on the same day
	merged := worktime.MergeDayRecords([]worktime.AttendanceRecord{
		punch(t, "2026-01-05", "13:30", "18:00"),
		punch(t, "2026-01-05", "09:00", "12:00"),
	})
	require.Len(t, merged, 1)

	day := merged[0]
	// THEN: One window 09:00-18:00 with the 1.5h gap as inferred break
	assert.True(t, day.IsMultipleRecords)
	assert.Equal(t, "09:00-18:00", day.RangeText())
	assert.Equal(t, 1.5, day.InferredBreak.Float64())
}

func TestMerge_OverlappingPunchesContributeNoNegativeBreak(t *testing.T) {
	// GIVEN: A second punch starting before the first ended
	merged := worktime.MergeDayRecords([]worktime.AttendanceRecord{
		punch(t, "2026-01-05", "09:00", "13:00"),
		punch(t, "2026-01-05", "12:00", "18:00"),
	})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].InferredBreak.IsZero())
}

func TestMerge_SeparateDatesStaySeparate(t *testing.T) {
	merged := worktime.MergeDayRecords([]worktime.AttendanceRecord{
		punch(t, "2026-01-06", "09:00", "18:00"),
		punch(t, "2026-01-05", "09:00", "18:00"),
	})
	require.Len(t, merged, 2)
	// Sorted ascending by date
	assert.True(t, merged[0].Date.Before(merged[1].Date))
}

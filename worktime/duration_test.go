/*
duration_test.go - Hour arithmetic tests

Covers segment durations (break subtraction, overnight wrap, zero floor),
the fixed 4-place rounding after division, and editable-range parsing.
*/
package worktime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/worktime-engine/worktime"
)

func mustSegments(t *testing.T, input string) []worktime.TimeSegment {
	t.Helper()
	segs, err := worktime.ParseScheduleShorthand(input)
	require.NoError(t, err)
	return segs
}

func dayOf(t *testing.T, input string) worktime.ScheduleDay {
	t.Helper()
	day := worktime.ScheduleDay{Segments: mustSegments(t, input), InputEcho: input}
	day.TotalHours = worktime.TotalScheduleHours(day)
	return day
}

// =============================================================================
// SEGMENT AND DAY TOTALS
// =============================================================================

func TestSegmentHours_BreakSubtracted(t *testing.T) {
	// GIVEN: "10-22(2)" - 12h span with a 2h break
	// THEN: 10 net hours
	day := dayOf(t, "10-22(2)")
	assert.Equal(t, float64(10), day.TotalHours.Float64())
}

func TestSegmentHours_SplitShift(t *testing.T) {
	// GIVEN: "10-13,19-23(0.5)" - 3h + 4h with a 0.5h break
	// THEN: 6.5 net hours
	day := dayOf(t, "10-13,19-23(0.5)")
	assert.Equal(t, 6.5, day.TotalHours.Float64())
}

func TestSegmentHours_OvernightWrap(t *testing.T) {
	// GIVEN: "22-6" - end before start means the shift crosses midnight
	// THEN: 8 hours, never -16
	day := dayOf(t, "22-6")
	assert.Equal(t, float64(8), day.TotalHours.Float64())
}

func TestSegmentHours_BreakExceedingSpanFloorsAtZero(t *testing.T) {
	// GIVEN: A 1h span with a 2h declared break
	day := dayOf(t, "10-11(2)")
	assert.True(t, day.TotalHours.IsZero())
}

// =============================================================================
// ROUNDING
// =============================================================================

func TestHours_RoundsToFourPlacesAfterDivision(t *testing.T) {
	// GIVEN: 301 minutes
	// THEN: 5.0167, not 5.01666...
	assert.Equal(t, "5.0167", worktime.HoursFromMinutes(301).String())
}

func TestHours_DecimalAdditionHasNoDrift(t *testing.T) {
	// GIVEN: Values that float64 cannot sum exactly
	sum := worktime.HoursFromFloat(1.111).
		Add(worktime.HoursFromFloat(2.222)).
		Add(worktime.HoursFromFloat(3.333))
	assert.Equal(t, "6.666", sum.String())
}

func TestHours_WithinTolerance(t *testing.T) {
	tol := worktime.HoursFromFloat(0.01)
	a := worktime.HoursFromFloat(8.0)

	assert.True(t, a.WithinTolerance(worktime.HoursFromFloat(8.01), tol))
	assert.True(t, a.WithinTolerance(worktime.HoursFromFloat(7.99), tol))
	assert.False(t, a.WithinTolerance(worktime.HoursFromFloat(8.02), tol))
}

// =============================================================================
// EDITABLE RANGE PARSING
// =============================================================================

func TestParseTimeRange_Basic(t *testing.T) {
	total, present, err := worktime.ParseTimeRange("09:00-18:00")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, float64(9), total.Float64())
}

func TestParseTimeRange_OvernightAndMultiSegment(t *testing.T) {
	// GIVEN: An overnight range
	total, present, err := worktime.ParseTimeRange("22:00-06:00")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, float64(8), total.Float64())

	// GIVEN: A comma-separated display string
	total, present, err = worktime.ParseTimeRange("10:00-13:00,19:00-23:00")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, float64(7), total.Float64())
}

func TestParseTimeRange_AbsentMarkers(t *testing.T) {
	for _, input := range []string{"", "-", "  "} {
		total, present, err := worktime.ParseTimeRange(input)
		require.NoError(t, err)
		assert.False(t, present, "input %q", input)
		assert.True(t, total.IsZero())
	}
}

func TestParseTimeRange_Malformed(t *testing.T) {
	for _, input := range []string{"9-18", "09:00", "09:00-25:00", "abc"} {
		_, _, err := worktime.ParseTimeRange(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, worktime.ErrInvalidTimeRange))
	}
}

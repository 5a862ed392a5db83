/*
grammar_test.go - Shorthand and attendance-paste parser tests

Covers the schedule shorthand grammar (whole-parse failure, fractional
hours, per-segment breaks) and the per-line layout detection of the
attendance block parser (new, legacy, mixed, unusable lines).
*/
package worktime_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/worktime-engine/worktime"
)

// =============================================================================
// SCHEDULE SHORTHAND
// =============================================================================

func TestParseShorthand_SingleSegmentWithBreak(t *testing.T) {
	// GIVEN: "10-22(2)"
	// WHEN: Parsing
	// THEN: One segment 10:00-22:00 with a 2h break
	segs, err := worktime.ParseScheduleShorthand("10-22(2)")
	require.NoError(t, err)
	require.Len(t, segs, 1)

	assert.Equal(t, worktime.ClockTimeFromParts(10, 0), segs[0].Start)
	assert.Equal(t, worktime.ClockTimeFromParts(22, 0), segs[0].End)
	assert.Equal(t, "2", segs[0].BreakHours.String())
}

func TestParseShorthand_MultiSegment(t *testing.T) {
	// GIVEN: "10-13,19-23(0.5)" - split shift, break on the second segment
	segs, err := worktime.ParseScheduleShorthand("10-13,19-23(0.5)")
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.True(t, segs[0].BreakHours.IsZero())
	assert.Equal(t, "0.5", segs[1].BreakHours.String())
}

func TestParseShorthand_FractionalHours(t *testing.T) {
	// GIVEN: "9.5-18.25" - decimal fractions of an hour
	// THEN: 09:30 and 18:15
	segs, err := worktime.ParseScheduleShorthand("9.5-18.25")
	require.NoError(t, err)
	require.Len(t, segs, 1)

	assert.Equal(t, worktime.ClockTimeFromParts(9, 30), segs[0].Start)
	assert.Equal(t, worktime.ClockTimeFromParts(18, 15), segs[0].End)
}

func TestParseShorthand_WholeParseFails(t *testing.T) {
	// GIVEN: A multi-segment input whose second segment is malformed
	// WHEN: Parsing
	// THEN: The whole input is rejected; no partial segment list
	segs, err := worktime.ParseScheduleShorthand("10-13,banana")
	assert.Nil(t, segs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, worktime.ErrInvalidScheduleFormat))

	var parseErr *worktime.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "banana", parseErr.Segment)
	assert.NotEmpty(t, parseErr.Hint())
}

func TestParseShorthand_RejectsOutOfRangeHours(t *testing.T) {
	cases := []string{"", "25-26", "10-", "-22", "10-22(x)"}
	for _, input := range cases {
		_, err := worktime.ParseScheduleShorthand(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}

func TestParseShorthand_MidnightEnd(t *testing.T) {
	// GIVEN: "10-24" - ends exactly at midnight
	segs, err := worktime.ParseScheduleShorthand("10-24")
	require.NoError(t, err)
	assert.Equal(t, worktime.ClockTime(24*60), segs[0].End)
}

// =============================================================================
// ATTENDANCE PASTE - NEW LAYOUT
// =============================================================================

func TestParseAttendance_NewLayout(t *testing.T) {
	// GIVEN: A new-layout line: bare date, HH:MM punches, net hours in col 7
	line := "2026-01-05\t김유진\t강남\t09:00\t18:00\t\t\t8.0"

	records := worktime.ParseAttendanceBlock(line)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, worktime.LayoutNew, rec.Layout)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), rec.Start)
	assert.Equal(t, time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC), rec.End)
	require.NotNil(t, rec.NetHours)
	assert.Equal(t, float64(8), rec.NetHours.Float64())
}

func TestParseAttendance_NewLayoutOvernight(t *testing.T) {
	// GIVEN: End punch numerically before start - shift crosses midnight
	line := "2026-01-05\t김유진\t강남\t22:00\t06:00\t\t\t8.0"

	records := worktime.ParseAttendanceBlock(line)
	require.Len(t, records, 1)

	// THEN: End lands on the next calendar day
	assert.Equal(t, time.Date(2026, 1, 6, 6, 0, 0, 0, time.UTC), records[0].End)
}

func TestParseAttendance_NewLayoutMissingPunchDropped(t *testing.T) {
	// GIVEN: A row whose end punch is missing
	line := "2026-01-05\t김유진\t강남\t09:00\t\t\t\t8.0"

	// THEN: The row is silently dropped
	assert.Empty(t, worktime.ParseAttendanceBlock(line))
}

// =============================================================================
// ATTENDANCE PASTE - LEGACY LAYOUT
// =============================================================================

func TestParseAttendance_LegacyLayout(t *testing.T) {
	// GIVEN: A legacy line with full timestamps and "8:30" net in column 7
	line := "1234\t2026-01-05 09:00:00\t2026-01-05 18:00:00\tX\tX\tX\tX\t8:30"

	records := worktime.ParseAttendanceBlock(line)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, worktime.LayoutLegacy, rec.Layout)
	require.NotNil(t, rec.NetHours)
	assert.Equal(t, "8.5", rec.NetHours.String())
}

func TestParseAttendance_LegacyFallsBackToSpan(t *testing.T) {
	// GIVEN: A legacy line with no H:MM duration in any candidate column
	line := "1234\t2026-01-05 09:00:00\t2026-01-05 14:01:00\tX\tX\tX\tX\tX"

	records := worktime.ParseAttendanceBlock(line)
	require.Len(t, records, 1)

	// THEN: Net hours are computed from the span, rounded to 4 places
	// (301 minutes = 5.0167h)
	assert.Equal(t, "5.0167", records[0].NetHours.String())
}

// =============================================================================
// ATTENDANCE PASTE - MIXED AND UNUSABLE INPUT
// =============================================================================

func TestParseAttendance_MixedLayoutsInOnePaste(t *testing.T) {
	// GIVEN: One paste carrying both layouts plus garbage
	text := "2026-01-05\t김유진\t강남\t09:00\t18:00\t\t\t8.0\n" +
		"short line\n" +
		"\n" +
		"1234\t2026-01-06 10:00:00\t2026-01-06 15:00:00\tX\tX\tX\tX\t5:00\n"

	records := worktime.ParseAttendanceBlock(text)
	require.Len(t, records, 2)
	assert.Equal(t, worktime.LayoutNew, records[0].Layout)
	assert.Equal(t, worktime.LayoutLegacy, records[1].Layout)
}

func TestParseAttendance_SpaceSeparatedFallback(t *testing.T) {
	// GIVEN: A paste whose tabs were flattened to runs of spaces
	line := "2026-01-05   김유진   강남   09:00   18:00   -   -   8.0"

	records := worktime.ParseAttendanceBlock(line)
	require.Len(t, records, 1)
	assert.Equal(t, worktime.LayoutNew, records[0].Layout)
}

func TestParseAttendance_EmptyInput(t *testing.T) {
	assert.Empty(t, worktime.ParseAttendanceBlock(""))
	assert.Empty(t, worktime.ParseAttendanceBlock("\n\n\n"))
}

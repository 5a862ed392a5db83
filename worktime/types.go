/*
Package worktime implements the work-time reconciliation engine.

PURPOSE:
  This package contains the core types and algorithms for comparing a
  branch's planned weekly schedule against the actual attendance feed
  exported from the POS. Planned entries arrive as compact shorthand
  ("10-13,19-23(0.5)"), actuals arrive as pasted tab-delimited text in
  two incompatible layouts. Both streams are normalized into per-day
  hour totals, joined per employee/branch/date, and persisted as one
  canonical ComparisonRow per day.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: decimal hour quantity, rounded to 4 places after division
  - ClockTime: wall-clock time-of-day in minutes since midnight
  - TimeSegment: one start-end sub-interval with its own break
  - ScheduleDay: planned work for one employee/branch/date
  - AttendanceRecord: one raw punch row parsed from pasted text
  - MergedAttendanceDay: same-day punches collapsed into one window
  - ComparisonRow: the persisted plan-vs-actual unit

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, never raw float64 sums
  2. Type safety: EmployeeID/BranchID/Month are distinct string types
  3. Purity: parsing and reconciliation are pure functions; persistence
     is a separate boundary (see persist.go, store.go)

SEE ALSO:
  - grammar.go: shorthand and attendance-block parsers
  - duration.go: segment and range duration math
  - merge.go: same-day punch merging
  - reconcile.go: the plan-vs-actual join
*/
package worktime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Decimal hour quantity
// =============================================================================

// hourScale is the rounding applied after every division. 301 minutes must
// become 5.0167 hours, not 5.016666..., so repeated additions cannot drift.
const hourScale = 4

// Hours wraps decimal.Decimal so every division goes through the same
// rounding rule.
type Hours struct {
	d decimal.Decimal
}

func HoursFromFloat(v float64) Hours  { return Hours{decimal.NewFromFloat(v).Round(hourScale)} }
func HoursFromString(s string) (Hours, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Hours{}, err
	}
	return Hours{d.Round(hourScale)}, nil
}

// HoursFromMinutes converts minutes to hours, rounding immediately.
func HoursFromMinutes(minutes int) Hours {
	return Hours{decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(hourScale)}
}

func ZeroHours() Hours { return Hours{} }

func (h Hours) Add(o Hours) Hours { return Hours{h.d.Add(o.d).Round(hourScale)} }
func (h Hours) Sub(o Hours) Hours { return Hours{h.d.Sub(o.d).Round(hourScale)} }
func (h Hours) Neg() Hours        { return Hours{h.d.Neg()} }
func (h Hours) Abs() Hours        { return Hours{h.d.Abs()} }
func (h Hours) IsZero() bool      { return h.d.IsZero() }
func (h Hours) IsNegative() bool  { return h.d.IsNegative() }

func (h Hours) Cmp(o Hours) int              { return h.d.Cmp(o.d) }
func (h Hours) GreaterThanOrEqual(o Hours) bool { return h.d.GreaterThanOrEqual(o.d) }
func (h Hours) LessThan(o Hours) bool        { return h.d.LessThan(o.d) }

// FloorZero clamps negative values to zero. Net durations are never negative.
func (h Hours) FloorZero() Hours {
	if h.d.IsNegative() {
		return Hours{}
	}
	return h
}

func (h Hours) Float64() float64 { f, _ := h.d.Float64(); return f }
func (h Hours) String() string   { return h.d.String() }
func (h Hours) Decimal() decimal.Decimal { return h.d }

// WithinTolerance reports whether two hour values differ by at most tol.
// Used by the upsert layer to match regenerated rows against stored ones.
func (h Hours) WithinTolerance(o Hours, tol Hours) bool {
	return h.Sub(o).Abs().Cmp(tol) <= 0
}

// MarshalJSON/UnmarshalJSON keep Hours as a quoted decimal string so stored
// segments survive round trips without float re-encoding.
func (h Hours) MarshalJSON() ([]byte, error) { return h.d.MarshalJSON() }

func (h *Hours) UnmarshalJSON(data []byte) error {
	if err := h.d.UnmarshalJSON(data); err != nil {
		return err
	}
	h.d = h.d.Round(hourScale)
	return nil
}

// =============================================================================
// CLOCK TIME - Wall-clock time-of-day
// =============================================================================

// ClockTime is minutes since midnight. The shorthand grammar writes 18:30 as
// 18.5, the attendance feed writes it as "18:30"; both normalize here. A value
// of 1440 represents midnight at the end of the day ("10-24").
type ClockTime int

func ClockTimeFromParts(hour, minute int) ClockTime { return ClockTime(hour*60 + minute) }

func (c ClockTime) Hour() int   { return int(c) / 60 % 24 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60%24, int(c)%60)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type BranchID string

// Month identifies a calendar month as "YYYY-MM".
type Month string

func MonthOf(t time.Time) Month { return Month(t.Format("2006-01")) }

// FirstDay returns midnight UTC on the 1st of the month.
func (m Month) FirstDay() (time.Time, error) {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", m, err)
	}
	return t, nil
}

// Contains reports whether the date falls inside the month's calendar range.
func (m Month) Contains(date time.Time) bool {
	return MonthOf(date) == m
}

// =============================================================================
// TIME SEGMENT - One contiguous planned sub-interval
// =============================================================================

// TimeSegment is one start-end interval within a schedule day, with its own
// break in hours. End numerically before start means the segment crosses
// midnight (duration = end+24h - start).
type TimeSegment struct {
	Start      ClockTime
	End        ClockTime
	BreakHours Hours
}

// =============================================================================
// SCHEDULE DAY - Planned work for one employee/branch/date
// =============================================================================

// ScheduleDay is created or overwritten wholesale whenever a cell is
// re-entered; old segments for the same employee/branch/date are replaced
// atomically. Immutable once payroll for the month is confirmed.
type ScheduleDay struct {
	EmployeeID EmployeeID
	BranchID   BranchID
	Date       time.Time

	Segments []TimeSegment

	// InputEcho is the verbatim shorthand the reviewer typed.
	InputEcho string

	// TotalHours is derived; see TotalScheduleHours.
	TotalHours Hours
}

// RangeText renders the day's displayed span: first segment's start to last
// segment's end, extra segments appended comma-separated.
func (d ScheduleDay) RangeText() string {
	if len(d.Segments) == 0 {
		return "-"
	}
	out := ""
	for i, seg := range d.Segments {
		if i > 0 {
			out += ","
		}
		out += seg.Start.String() + "-" + seg.End.String()
	}
	return out
}

// DeclaredBreak is the sum of per-segment breaks.
func (d ScheduleDay) DeclaredBreak() Hours {
	total := ZeroHours()
	for _, seg := range d.Segments {
		total = total.Add(seg.BreakHours)
	}
	return total
}

// =============================================================================
// ATTENDANCE RECORD - One raw punch row (ephemeral)
// =============================================================================

type AttendanceLayout string

const (
	LayoutNew    AttendanceLayout = "new"        // bare date + HH:MM columns
	LayoutLegacy AttendanceLayout = "legacy_pos" // full start/end timestamps
)

// AttendanceRecord is one parsed row of pasted attendance text. It exists
// only for the duration of a comparison run and is never persisted.
type AttendanceRecord struct {
	Date   time.Time // calendar day the punch belongs to
	Start  time.Time
	End    time.Time
	Layout AttendanceLayout

	// NetHours carries the export's pre-computed net duration when the row
	// had one; nil means it must be derived from Start/End.
	NetHours *Hours
}

// =============================================================================
// MERGED ATTENDANCE DAY - Same-day punches collapsed into one window
// =============================================================================

type MergedAttendanceDay struct {
	Date  time.Time
	Start time.Time
	End   time.Time

	// InferredBreak is the sum of positive gaps between consecutive punches.
	// Only meaningful when IsMultipleRecords is true; otherwise it carries
	// the layout-derived break, if any.
	InferredBreak Hours

	// IsMultipleRecords distinguishes an inferred break from a
	// schedule-declared one downstream.
	IsMultipleRecords bool
}

// RangeText formats the merged window as HH:MM-HH:MM.
func (m MergedAttendanceDay) RangeText() string {
	return m.Start.Format("15:04") + "-" + m.End.Format("15:04")
}

// =============================================================================
// COMPARISON ROW - The persisted plan-vs-actual unit
// =============================================================================

type RowStatus string

const (
	StatusTimeMatch       RowStatus = "time_match"
	StatusReviewRequired  RowStatus = "review_required"
	StatusReviewCompleted RowStatus = "review_completed"
)

// ReviewThreshold is the absolute difference, in hours, at which a row needs
// review. 0.17h is ten minutes; the boundary itself triggers (>=, not >).
var ReviewThreshold = HoursFromFloat(0.17)

// ComparisonRow is the persisted unit. Composite identity is
// (EmployeeID, BranchID, Date, Month); ID is a stable synthetic key assigned
// at manual-row creation or at first persistence.
type ComparisonRow struct {
	ID string

	EmployeeID EmployeeID
	BranchID   BranchID
	Date       time.Time
	Month      Month

	// EmployeeLabel is the display label, which may carry a parenthesized
	// branch tag (e.g. "김유진(강남)"). Used by the run-level dedupe.
	EmployeeLabel string

	ScheduledHours     Hours
	ScheduledRangeText string

	ActualRangeText string // editable
	ActualBreak     Hours  // editable
	ActualWorkHours Hours  // derived: range duration - break, floored at 0
	Difference      Hours  // derived: actual - scheduled

	// PosRangeText is the raw merged-attendance window, display-only. It is
	// never recomputed by edits.
	PosRangeText string

	Status     RowStatus
	IsManual   bool
	IsModified bool
	IsHoliday  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveStatus applies the review threshold to a difference.
func DeriveStatus(difference Hours) RowStatus {
	if difference.Abs().GreaterThanOrEqual(ReviewThreshold) {
		return StatusReviewRequired
	}
	return StatusTimeMatch
}

// =============================================================================
// HOLIDAY CALENDAR - Read-only external collaborator
// =============================================================================

// HolidayCalendar is consulted read-only for display flags. The lookup data
// itself is owned elsewhere; this engine only reads it.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// NoHolidays is the calendar used when no holiday table is wired.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }

/*
duration.go - Segment and range duration math

PURPOSE:
  All hour arithmetic lives here. Everything works in whole minutes until
  the final division by 60, which rounds to 4 decimal places immediately
  (see Hours) so float drift cannot compound across additions.

OVERNIGHT WRAP:
  An end numerically before its start means the interval crosses
  midnight: duration = (end + 24h) - start. "22-6" is 8 hours.
*/
package worktime

import (
	"strings"
)

const minutesPerDay = 24 * 60

// SegmentHours returns a segment's net duration: wall-clock span, wrapped
// across midnight when needed, minus the segment's break, floored at zero.
func SegmentHours(seg TimeSegment) Hours {
	span := int(seg.End) - int(seg.Start)
	if span < 0 {
		span += minutesPerDay
	}
	return HoursFromMinutes(span).Sub(seg.BreakHours).FloorZero()
}

// TotalScheduleHours sums SegmentHours over a day's segments.
func TotalScheduleHours(day ScheduleDay) Hours {
	total := ZeroHours()
	for _, seg := range day.Segments {
		total = total.Add(SegmentHours(seg))
	}
	return total
}

// RangeHours is the gross span of a "HH:MM-HH:MM" pair before break
// subtraction, wrapping across midnight.
func RangeHours(start, end ClockTime) Hours {
	span := int(end) - int(start)
	if span < 0 {
		span += minutesPerDay
	}
	return HoursFromMinutes(span)
}

// ParseTimeRange reads an editable actual range. "-" and "" mean absent.
// Multi-segment display strings ("10:00-13:00,19:00-23:00") sum their spans.
func ParseTimeRange(text string) (total Hours, present bool, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "-" {
		return ZeroHours(), false, nil
	}

	sum := ZeroHours()
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return ZeroHours(), false, ErrInvalidTimeRange
		}
		start, okStart := parseClock(strings.TrimSpace(bounds[0]))
		end, okEnd := parseClock(strings.TrimSpace(bounds[1]))
		if !okStart || !okEnd {
			return ZeroHours(), false, ErrInvalidTimeRange
		}
		sum = sum.Add(RangeHours(start, end))
	}
	return sum, true, nil
}

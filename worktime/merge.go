/*
merge.go - Same-day punch merging

PURPOSE:
  A POS feed often has several punch pairs per employee per day (split
  shifts, re-clock after a till change). The reconciliation engine wants
  exactly one logical work window per date, so multiple records collapse
  to [earliest start, latest end] and the gaps between consecutive
  punches become the inferred break.

GAP RULE:
  Only positive gaps count. Overlapping punches contribute zero break,
  never negative.
*/
package worktime

import (
	"sort"
	"time"
)

// MergeDayRecords groups raw records by date and collapses each group into
// one MergedAttendanceDay, sorted by date ascending.
func MergeDayRecords(records []AttendanceRecord) []MergedAttendanceDay {
	byDate := make(map[time.Time][]AttendanceRecord)
	for _, rec := range records {
		day := rec.Date
		byDate[day] = append(byDate[day], rec)
	}

	var merged []MergedAttendanceDay
	for date, group := range byDate {
		merged = append(merged, mergeOneDay(date, group))
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	return merged
}

func mergeOneDay(date time.Time, group []AttendanceRecord) MergedAttendanceDay {
	if len(group) == 1 {
		rec := group[0]
		return MergedAttendanceDay{
			Date:          date,
			Start:         rec.Start,
			End:           rec.End,
			InferredBreak: layoutBreak(rec),
		}
	}

	sort.Slice(group, func(i, j int) bool { return group[i].Start.Before(group[j].Start) })

	out := MergedAttendanceDay{
		Date:              date,
		Start:             group[0].Start,
		End:               group[len(group)-1].End,
		IsMultipleRecords: true,
	}

	gaps := ZeroHours()
	for i := 1; i < len(group); i++ {
		gap := group[i].Start.Sub(group[i-1].End)
		if gap > 0 {
			gaps = gaps.Add(HoursFromMinutes(int(gap.Minutes())))
		}
	}
	out.InferredBreak = gaps
	return out
}

// layoutBreak derives a single record's break from its pre-computed net
// hours: gross span minus net. No net value means no break.
func layoutBreak(rec AttendanceRecord) Hours {
	if rec.NetHours == nil {
		return ZeroHours()
	}
	gross := HoursFromMinutes(int(rec.End.Sub(rec.Start).Minutes()))
	return gross.Sub(*rec.NetHours).FloorZero()
}

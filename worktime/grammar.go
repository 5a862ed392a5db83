/*
grammar.go - The two free-form text grammars

PURPOSE:
  Parses the reviewer-typed schedule shorthand and the pasted attendance
  block. These are the only places raw text is interpreted; every other
  component consumes typed values.

SCHEDULE SHORTHAND:
  SEGMENT("," SEGMENT)* where SEGMENT = HOUR "-" HOUR ("(" BREAK ")")?
  and HOUR = INTEGER ("." FRACTION)?. Decimal fractions are fractions of
  an hour: 18.5 means 18:30. "10-13,19-23(0.5)" is two segments, the
  second with a 30-minute break. A single bad segment fails the whole
  parse; a multi-segment input is never partially applied.

ATTENDANCE PASTE:
  Multi-line, tab-delimited (falling back to runs of 3+ spaces). Two
  layouts are auto-detected PER LINE, so mixed exports are tolerated:

  new:    [0]=YYYY-MM-DD  [3]=start HH:MM  [4]=end HH:MM  [7]=net hours
  legacy: [1]=start timestamp  [2]=end timestamp  net H:MM searched in a
          fixed candidate-column order, else computed end-start

  Detection heuristic: a line is "new" when column 0 is a bare date and
  column 1 contains no colon. This is inherently ambiguous for edge-case
  exports; it is preserved verbatim for compatibility with the feeds we
  actually receive. Do not "fix" it without new input samples.

  Lines with fewer than 8 tokens, and new-layout rows missing a start or
  end punch, are silently dropped - trailing garbage is common in pastes.
*/
package worktime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SCHEDULE SHORTHAND
// =============================================================================

var segmentPattern = regexp.MustCompile(`^(\d{1,2}(?:\.\d+)?)-(\d{1,2}(?:\.\d+)?)(?:\((\d+(?:\.\d+)?)\))?$`)

// ParseScheduleShorthand converts "10-13,19-23(0.5)" into segments. Any
// non-matching segment fails the whole parse with ErrInvalidScheduleFormat.
func ParseScheduleShorthand(input string) ([]TimeSegment, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, &ParseError{Input: input, Segment: "", Reason: "empty input"}
	}

	var segments []TimeSegment
	for _, raw := range strings.Split(trimmed, ",") {
		part := strings.TrimSpace(raw)
		m := segmentPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, &ParseError{Input: input, Segment: part, Reason: "does not match H[.F]-H[.F](BREAK)?"}
		}

		start, ok := parseHourShorthand(m[1])
		if !ok {
			return nil, &ParseError{Input: input, Segment: part, Reason: "start hour out of range"}
		}
		end, ok := parseHourShorthand(m[2])
		if !ok {
			return nil, &ParseError{Input: input, Segment: part, Reason: "end hour out of range"}
		}

		seg := TimeSegment{Start: start, End: end}
		if m[3] != "" {
			br, err := HoursFromString(m[3])
			if err != nil {
				return nil, &ParseError{Input: input, Segment: part, Reason: "bad break value"}
			}
			seg.BreakHours = br
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// parseHourShorthand turns "18.5" into 18:30. Hours up to 24 are accepted so
// "10-24" can end exactly at midnight.
func parseHourShorthand(s string) (ClockTime, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 24 {
		return 0, false
	}
	minutes := int(v*60 + 0.5)
	return ClockTime(minutes), true
}

// =============================================================================
// ATTENDANCE PASTE
// =============================================================================

const minAttendanceColumns = 8

var (
	bareDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern     = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	multiSpaceSplit  = regexp.MustCompile(` {3,}`)

	// legacyDurationColumns is the fixed preferred order in which the legacy
	// layout's pre-computed H:MM net duration is searched.
	legacyDurationColumns = []int{7, 8, 9, 6}
)

// ParseAttendanceBlock tokenizes a pasted export. Unusable lines are skipped,
// never fatal; the result may legitimately be empty.
func ParseAttendanceBlock(text string) []AttendanceRecord {
	var records []AttendanceRecord
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := tokenizeLine(line)
		if len(cols) < minAttendanceColumns {
			continue
		}

		var rec *AttendanceRecord
		if isNewLayout(cols) {
			rec = parseNewLayout(cols)
		} else {
			rec = parseLegacyLayout(cols)
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

// tokenizeLine splits on tabs, falling back to runs of 3+ spaces so pastes
// from spreadsheet viewers that flatten tabs still line up.
func tokenizeLine(line string) []string {
	line = strings.TrimRight(line, "\r")
	var cols []string
	if strings.Contains(line, "\t") {
		cols = strings.Split(line, "\t")
	} else {
		cols = multiSpaceSplit.Split(line, -1)
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

// isNewLayout: bare date in column 0 and no colon in column 1.
func isNewLayout(cols []string) bool {
	return bareDatePattern.MatchString(cols[0]) && !strings.Contains(cols[1], ":")
}

func parseNewLayout(cols []string) *AttendanceRecord {
	date, err := time.Parse("2006-01-02", cols[0])
	if err != nil {
		return nil
	}
	start, okStart := parseClock(cols[3])
	end, okEnd := parseClock(cols[4])
	if !okStart || !okEnd {
		// Incomplete punch (missing in or out): drop silently.
		return nil
	}

	startAt := date.Add(time.Duration(start) * time.Minute)
	endAt := date.Add(time.Duration(end) * time.Minute)
	if end < start {
		endAt = endAt.AddDate(0, 0, 1) // overnight shift
	}

	rec := &AttendanceRecord{Date: date, Start: startAt, End: endAt, Layout: LayoutNew}
	if h, err := HoursFromString(cols[7]); err == nil {
		rec.NetHours = &h
	}
	return rec
}

func parseLegacyLayout(cols []string) *AttendanceRecord {
	start, err := time.Parse("2006-01-02 15:04:05", cols[1])
	if err != nil {
		return nil
	}
	end, err := time.Parse("2006-01-02 15:04:05", cols[2])
	if err != nil {
		return nil
	}

	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	rec := &AttendanceRecord{Date: date, Start: start, End: end, Layout: LayoutLegacy}

	for _, idx := range legacyDurationColumns {
		if idx >= len(cols) {
			continue
		}
		if clockPattern.MatchString(cols[idx]) {
			if h, ok := parseClockDuration(cols[idx]); ok {
				rec.NetHours = &h
				break
			}
		}
	}
	if rec.NetHours == nil {
		h := HoursFromMinutes(int(end.Sub(start).Minutes()))
		rec.NetHours = &h
	}
	return rec
}

func parseClock(s string) (ClockTime, bool) {
	if !clockPattern.MatchString(s) {
		return 0, false
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	if h > 23 || m > 59 {
		return 0, false
	}
	return ClockTimeFromParts(h, m), true
}

// parseClockDuration reads "H:MM" as an hour count, not a time of day.
func parseClockDuration(s string) (Hours, bool) {
	parts := strings.SplitN(s, ":", 2)
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || m > 59 {
		return Hours{}, false
	}
	return HoursFromMinutes(h*60 + m), true
}

/*
workbook.go - POS attendance workbook ingestion

PURPOSE:
  Reviewers usually paste from the POS export, but the export itself is
  an .xlsx workbook. Reading it directly skips the copy-paste step and
  feeds the exact same per-line layout detection: each row of the first
  sheet is flattened to a tab-joined line and handed to
  ParseAttendanceBlock, so both ingestion paths share one grammar.
*/
package worktime

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseAttendanceWorkbook reads the first sheet of an .xlsx export and
// returns the same records ParseAttendanceBlock would produce for its
// pasted equivalent.
func ParseAttendanceWorkbook(r io.Reader) ([]AttendanceRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var lines []string
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	return ParseAttendanceBlock(strings.Join(lines, "\n")), nil
}

/*
persist.go - Idempotent upsert of reconciliation output

PURPOSE:
  Maps in-memory comparison rows onto persisted records without creating
  duplicates on recompute. This is what makes repeated runs safe.

MATCHING ORDER:
  1. Row already carries an ID            -> update in place
  2. Stored row for the same employee/date/month whose net work hours are
     within 0.01h of the candidate's      -> adopt its ID, update
  3. Otherwise                            -> mint a uuid, insert

  Rule 2 exists for rows persisted before stable identities were
  assigned; regenerated rows have no natural key, so near-equal hours is
  the only way to recognize them. New rows always leave here with an ID,
  so the approximate match decays out of use.
*/
package worktime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// upsertTolerance is the net-work-hours slack under which a regenerated row
// and a stored row are treated as the same logical record.
var upsertTolerance = HoursFromFloat(0.01)

// PersistRows writes a run's row set through the store and returns the rows
// annotated with their persisted identity. Persistence failures surface to
// the caller; the in-memory set is not rolled back (the reviewer may retry).
func PersistRows(ctx context.Context, store RowStore, rows []ComparisonRow, employeeID EmployeeID, branchID BranchID, month Month) ([]ComparisonRow, error) {
	existing, err := store.ListMonth(ctx, employeeID, branchID, month)
	if err != nil {
		return nil, err
	}

	claimed := make(map[string]bool)
	out := make([]ComparisonRow, 0, len(rows))

	for _, row := range rows {
		if row.ID == "" {
			if match := findExisting(existing, claimed, row); match != nil {
				row.ID = match.ID
				row.CreatedAt = match.CreatedAt
			} else {
				row.ID = uuid.NewString()
			}
		}
		claimed[row.ID] = true
		row.UpdatedAt = time.Now().UTC()

		if err := store.Upsert(ctx, row); err != nil {
			return out, err
		}
		out = append(out, row)
	}
	return out, nil
}

func findExisting(existing []ComparisonRow, claimed map[string]bool, candidate ComparisonRow) *ComparisonRow {
	for i := range existing {
		stored := &existing[i]
		if claimed[stored.ID] {
			continue
		}
		if stored.EmployeeID != candidate.EmployeeID || !stored.Date.Equal(candidate.Date) || stored.Month != candidate.Month {
			continue
		}
		if stored.ActualWorkHours.WithinTolerance(candidate.ActualWorkHours, upsertTolerance) {
			return stored
		}
	}
	return nil
}

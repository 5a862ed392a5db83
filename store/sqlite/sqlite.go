/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence interface of the reconciliation engine
  (worktime.ScheduleStore, worktime.RowStore, review.Store,
  overtime.Store, worktime.HolidayCalendar) plus the employee/branch
  reference tables. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  schedule_days:    planned entries, PK (employee, branch, date),
                    segments stored as JSON, replaced wholesale on save
  comparison_rows:  the persisted plan-vs-actual units, uuid PK,
                    composite index on (employee, branch, month)
  review_statuses:  PK employeeID_branchID_month, denormalized names
  overtime_records: PK (employee, week_start)
  overtime_seeds:   one-time carried-over values, PK employee
  employees/branches: reference data
  holidays:         static red-day table, consulted read-only

VIEW TYPES:
  The domain interfaces reuse method names (Get, ListMonth), so the
  Store exposes one small view per interface: Schedules(), Rows(),
  Reviews(), Overtime(), Calendar(). All views share the same *sql.DB
  and mutex.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/worktime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - worktime/store.go, review/machine.go, overtime/carryover.go:
    interface definitions
  - store/memory: in-memory implementation for engine tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shiftwise/worktime-engine/overtime"
	"github.com/shiftwise/worktime-engine/review"
	"github.com/shiftwise/worktime-engine/worktime"
)

const dateLayout = "2006-01-02"

// Store owns the database handle. Use the view accessors to get the
// interface implementations.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	-- Planned schedule, replaced wholesale per (employee, branch, date)
	CREATE TABLE IF NOT EXISTS schedule_days (
		employee_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		date TEXT NOT NULL,
		segments_json TEXT NOT NULL,
		input_echo TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, branch_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_days_employee_date
		ON schedule_days(employee_id, date);

	-- One canonical comparison row per employee/branch/date/month
	CREATE TABLE IF NOT EXISTS comparison_rows (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		date TEXT NOT NULL,
		month TEXT NOT NULL,
		employee_label TEXT,
		scheduled_hours TEXT NOT NULL,
		scheduled_range TEXT,
		actual_range TEXT,
		actual_break TEXT NOT NULL,
		actual_work TEXT NOT NULL,
		difference TEXT NOT NULL,
		pos_range TEXT,
		status TEXT NOT NULL,
		is_manual BOOLEAN NOT NULL DEFAULT FALSE,
		is_modified BOOLEAN NOT NULL DEFAULT FALSE,
		is_holiday BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: loading one employee/branch/month
	CREATE INDEX IF NOT EXISTS idx_rows_key
		ON comparison_rows(employee_id, branch_id, month);
	CREATE INDEX IF NOT EXISTS idx_rows_date
		ON comparison_rows(employee_id, date, month);

	-- Review state machine, composite id employeeID_branchID_month
	CREATE TABLE IF NOT EXISTS review_statuses (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		branch_id TEXT NOT NULL,
		month TEXT NOT NULL,
		status TEXT NOT NULL,
		employee_name TEXT,
		branch_name TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_review_branch_month
		ON review_statuses(branch_id, month);

	-- Weekly overtime carryover
	CREATE TABLE IF NOT EXISTS overtime_records (
		employee_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		actual_hours TEXT NOT NULL,
		contract_hours TEXT NOT NULL,
		week_overtime TEXT NOT NULL,
		accumulated TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, week_start)
	);

	-- One-time carried-over seeds; first value is permanent
	CREATE TABLE IF NOT EXISTS overtime_seeds (
		employee_id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Reference data
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contract_type TEXT,
		weekly_hours TEXT NOT NULL DEFAULT '0',
		overtime_tracked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS branches (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Static red-day table, read-only for this engine
	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// VIEW ACCESSORS
// =============================================================================

func (s *Store) Schedules() *ScheduleStore  { return &ScheduleStore{s} }
func (s *Store) Rows() *RowStore            { return &RowStore{s} }
func (s *Store) Reviews() *ReviewStore      { return &ReviewStore{s} }
func (s *Store) Overtime() *OvertimeStore   { return &OvertimeStore{s} }
func (s *Store) Calendar() *HolidayCalendar { return &HolidayCalendar{s} }

// =============================================================================
// SCHEDULE STORE (worktime.ScheduleStore)
// =============================================================================

type ScheduleStore struct{ s *Store }

// ReplaceDay overwrites the day wholesale: the old segments for the same
// employee/branch/date are gone once this returns.
func (v *ScheduleStore) ReplaceDay(ctx context.Context, day worktime.ScheduleDay) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	segments, err := json.Marshal(day.Segments)
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}

	query := `
		INSERT INTO schedule_days (employee_id, branch_id, date, segments_json, input_echo, total_hours, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, branch_id, date) DO UPDATE SET
			segments_json = excluded.segments_json,
			input_echo = excluded.input_echo,
			total_hours = excluded.total_hours,
			updated_at = excluded.updated_at
	`
	_, err = v.s.db.ExecContext(ctx, query,
		day.EmployeeID, day.BranchID, day.Date.Format(dateLayout),
		string(segments), day.InputEcho, day.TotalHours.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (v *ScheduleStore) ListMonth(ctx context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) ([]worktime.ScheduleDay, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	query := `
		SELECT employee_id, branch_id, date, segments_json, input_echo, total_hours
		FROM schedule_days
		WHERE employee_id = ? AND branch_id = ? AND substr(date, 1, 7) = ?
		ORDER BY date ASC
	`
	return v.queryDays(ctx, query, employeeID, branchID, string(month))
}

func (v *ScheduleStore) ListByEmployeeDate(ctx context.Context, employeeID worktime.EmployeeID, date time.Time) ([]worktime.ScheduleDay, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	query := `
		SELECT employee_id, branch_id, date, segments_json, input_echo, total_hours
		FROM schedule_days
		WHERE employee_id = ? AND date = ?
		ORDER BY branch_id ASC
	`
	return v.queryDays(ctx, query, employeeID, date.Format(dateLayout))
}

func (v *ScheduleStore) DeleteDay(ctx context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, date time.Time) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	_, err := v.s.db.ExecContext(ctx,
		"DELETE FROM schedule_days WHERE employee_id = ? AND branch_id = ? AND date = ?",
		employeeID, branchID, date.Format(dateLayout))
	return err
}

func (v *ScheduleStore) queryDays(ctx context.Context, query string, args ...any) ([]worktime.ScheduleDay, error) {
	rows, err := v.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule days: %w", err)
	}
	defer rows.Close()

	var days []worktime.ScheduleDay
	for rows.Next() {
		var (
			day          worktime.ScheduleDay
			dateStr      string
			segmentsJSON string
			totalHours   string
		)
		if err := rows.Scan(&day.EmployeeID, &day.BranchID, &dateStr, &segmentsJSON, &day.InputEcho, &totalHours); err != nil {
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		day.Date, _ = time.Parse(dateLayout, dateStr)
		if err := json.Unmarshal([]byte(segmentsJSON), &day.Segments); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
		day.TotalHours, _ = worktime.HoursFromString(totalHours)
		days = append(days, day)
	}
	return days, rows.Err()
}

// =============================================================================
// ROW STORE (worktime.RowStore)
// =============================================================================

type RowStore struct{ s *Store }

const rowColumns = `id, employee_id, branch_id, date, month, employee_label,
	scheduled_hours, scheduled_range, actual_range, actual_break, actual_work,
	difference, pos_range, status, is_manual, is_modified, is_holiday,
	created_at, updated_at`

func (v *RowStore) Get(ctx context.Context, id string) (*worktime.ComparisonRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	rows, err := v.queryRows(ctx, "SELECT "+rowColumns+" FROM comparison_rows WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (v *RowStore) ListMonth(ctx context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) ([]worktime.ComparisonRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	query := "SELECT " + rowColumns + ` FROM comparison_rows
		WHERE employee_id = ? AND branch_id = ? AND month = ?
		ORDER BY date ASC`
	return v.queryRows(ctx, query, employeeID, branchID, string(month))
}

func (v *RowStore) ListManual(ctx context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) ([]worktime.ComparisonRow, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	query := "SELECT " + rowColumns + ` FROM comparison_rows
		WHERE employee_id = ? AND branch_id = ? AND month = ? AND is_manual
		ORDER BY date ASC`
	return v.queryRows(ctx, query, employeeID, branchID, string(month))
}

func (v *RowStore) Upsert(ctx context.Context, row worktime.ComparisonRow) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	query := `
		INSERT INTO comparison_rows (` + rowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			employee_label = excluded.employee_label,
			scheduled_hours = excluded.scheduled_hours,
			scheduled_range = excluded.scheduled_range,
			actual_range = excluded.actual_range,
			actual_break = excluded.actual_break,
			actual_work = excluded.actual_work,
			difference = excluded.difference,
			pos_range = excluded.pos_range,
			status = excluded.status,
			is_manual = excluded.is_manual,
			is_modified = excluded.is_modified,
			is_holiday = excluded.is_holiday,
			updated_at = excluded.updated_at
	`
	_, err := v.s.db.ExecContext(ctx, query,
		row.ID, row.EmployeeID, row.BranchID,
		row.Date.Format(dateLayout), string(row.Month), row.EmployeeLabel,
		row.ScheduledHours.String(), row.ScheduledRangeText,
		row.ActualRangeText, row.ActualBreak.String(), row.ActualWorkHours.String(),
		row.Difference.String(), row.PosRangeText, string(row.Status),
		row.IsManual, row.IsModified, row.IsHoliday,
		row.CreatedAt.UTC().Format(time.RFC3339), row.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (v *RowStore) Delete(ctx context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	_, err := v.s.db.ExecContext(ctx, "DELETE FROM comparison_rows WHERE id = ?", id)
	return err
}

func (v *RowStore) queryRows(ctx context.Context, query string, args ...any) ([]worktime.ComparisonRow, error) {
	rows, err := v.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison rows: %w", err)
	}
	defer rows.Close()

	var out []worktime.ComparisonRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanRow(rows *sql.Rows) (worktime.ComparisonRow, error) {
	var (
		row                                   worktime.ComparisonRow
		dateStr, month, status                string
		schedHours, actBreak, actWork, diff   string
		label, schedRange, actRange, posRange sql.NullString
		createdAt, updatedAt                  string
	)
	err := rows.Scan(
		&row.ID, &row.EmployeeID, &row.BranchID, &dateStr, &month, &label,
		&schedHours, &schedRange, &actRange, &actBreak, &actWork,
		&diff, &posRange, &status, &row.IsManual, &row.IsModified, &row.IsHoliday,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan comparison row: %w", err)
	}

	row.Date, _ = time.Parse(dateLayout, dateStr)
	row.Month = worktime.Month(month)
	row.EmployeeLabel = label.String
	row.ScheduledHours, _ = worktime.HoursFromString(schedHours)
	row.ScheduledRangeText = schedRange.String
	row.ActualRangeText = actRange.String
	row.ActualBreak, _ = worktime.HoursFromString(actBreak)
	row.ActualWorkHours, _ = worktime.HoursFromString(actWork)
	row.Difference, _ = worktime.HoursFromString(diff)
	row.PosRangeText = posRange.String
	row.Status = worktime.RowStatus(status)
	row.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	row.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return row, nil
}

// =============================================================================
// REVIEW STORE (review.Store)
// =============================================================================

type ReviewStore struct{ s *Store }

func (v *ReviewStore) Get(ctx context.Context, key review.Key) (*review.Status, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var (
		status                   review.Status
		state, updatedAt         string
		employeeName, branchName sql.NullString
	)
	err := v.s.db.QueryRowContext(ctx,
		`SELECT employee_id, branch_id, month, status, employee_name, branch_name, updated_at
		 FROM review_statuses WHERE id = ?`, key.ID(),
	).Scan(&status.Key.EmployeeID, &status.Key.BranchID, &status.Key.Month,
		&state, &employeeName, &branchName, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	status.State = review.State(state)
	status.EmployeeName = employeeName.String
	status.BranchName = branchName.String
	status.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &status, nil
}

func (v *ReviewStore) Save(ctx context.Context, status review.Status) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	query := `
		INSERT INTO review_statuses (id, employee_id, branch_id, month, status, employee_name, branch_name, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			employee_name = excluded.employee_name,
			branch_name = excluded.branch_name,
			updated_at = excluded.updated_at
	`
	_, err := v.s.db.ExecContext(ctx, query,
		status.Key.ID(), status.Key.EmployeeID, status.Key.BranchID, string(status.Key.Month),
		string(status.State), status.EmployeeName, status.BranchName,
		status.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (v *ReviewStore) ListMonth(ctx context.Context, branchID worktime.BranchID, month worktime.Month) ([]review.Status, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	rows, err := v.s.db.QueryContext(ctx,
		`SELECT employee_id, branch_id, month, status, employee_name, branch_name, updated_at
		 FROM review_statuses WHERE branch_id = ? AND month = ? ORDER BY employee_id`,
		branchID, string(month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []review.Status
	for rows.Next() {
		var (
			status                   review.Status
			state, updatedAt         string
			employeeName, branchName sql.NullString
		)
		if err := rows.Scan(&status.Key.EmployeeID, &status.Key.BranchID, &status.Key.Month,
			&state, &employeeName, &branchName, &updatedAt); err != nil {
			return nil, err
		}
		status.State = review.State(state)
		status.EmployeeName = employeeName.String
		status.BranchName = branchName.String
		status.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, status)
	}
	return out, rows.Err()
}

// =============================================================================
// OVERTIME STORE (overtime.Store)
// =============================================================================

type OvertimeStore struct{ s *Store }

func (v *OvertimeStore) GetWeek(ctx context.Context, employeeID worktime.EmployeeID, weekStart time.Time) (*overtime.Record, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var (
		rec                                               overtime.Record
		weekStr, actual, contract, excess, acc, createdAt string
	)
	err := v.s.db.QueryRowContext(ctx,
		`SELECT employee_id, week_start, actual_hours, contract_hours, week_overtime, accumulated, created_at
		 FROM overtime_records WHERE employee_id = ? AND week_start = ?`,
		employeeID, weekStart.Format(dateLayout),
	).Scan(&rec.EmployeeID, &weekStr, &actual, &contract, &excess, &acc, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	fillOvertimeRecord(&rec, weekStr, actual, contract, excess, acc, createdAt)
	return &rec, nil
}

func (v *OvertimeStore) SaveWeek(ctx context.Context, rec overtime.Record) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	query := `
		INSERT INTO overtime_records (employee_id, week_start, actual_hours, contract_hours, week_overtime, accumulated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, week_start) DO UPDATE SET
			actual_hours = excluded.actual_hours,
			contract_hours = excluded.contract_hours,
			week_overtime = excluded.week_overtime,
			accumulated = excluded.accumulated
	`
	_, err := v.s.db.ExecContext(ctx, query,
		rec.EmployeeID, rec.WeekStart.Format(dateLayout),
		rec.ActualWorkHours.String(), rec.ContractualHours.String(),
		rec.CurrentWeekOvertime.String(), rec.Accumulated.String(),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (v *OvertimeStore) ListRange(ctx context.Context, employeeID worktime.EmployeeID, from, to time.Time) ([]overtime.Record, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	rows, err := v.s.db.QueryContext(ctx,
		`SELECT employee_id, week_start, actual_hours, contract_hours, week_overtime, accumulated, created_at
		 FROM overtime_records
		 WHERE employee_id = ? AND week_start >= ? AND week_start <= ?
		 ORDER BY week_start ASC`,
		employeeID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []overtime.Record
	for rows.Next() {
		var (
			rec                                               overtime.Record
			weekStr, actual, contract, excess, acc, createdAt string
		)
		if err := rows.Scan(&rec.EmployeeID, &weekStr, &actual, &contract, &excess, &acc, &createdAt); err != nil {
			return nil, err
		}
		fillOvertimeRecord(&rec, weekStr, actual, contract, excess, acc, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (v *OvertimeStore) GetSeed(ctx context.Context, employeeID worktime.EmployeeID) (worktime.Hours, bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var seed string
	err := v.s.db.QueryRowContext(ctx,
		"SELECT seed FROM overtime_seeds WHERE employee_id = ?", employeeID).Scan(&seed)
	if err == sql.ErrNoRows {
		return worktime.Hours{}, false, nil
	}
	if err != nil {
		return worktime.Hours{}, false, err
	}
	h, err := worktime.HoursFromString(seed)
	if err != nil {
		return worktime.Hours{}, false, err
	}
	return h, true, nil
}

// SaveSeed keeps the first supplied value; later writes are no-ops.
func (v *OvertimeStore) SaveSeed(ctx context.Context, employeeID worktime.EmployeeID, seed worktime.Hours) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	_, err := v.s.db.ExecContext(ctx,
		`INSERT INTO overtime_seeds (employee_id, seed, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(employee_id) DO NOTHING`,
		employeeID, seed.String(), time.Now().UTC().Format(time.RFC3339))
	return err
}

func fillOvertimeRecord(rec *overtime.Record, weekStr, actual, contract, excess, acc, createdAt string) {
	rec.WeekStart, _ = time.Parse(dateLayout, weekStr)
	rec.ActualWorkHours, _ = worktime.HoursFromString(actual)
	rec.ContractualHours, _ = worktime.HoursFromString(contract)
	rec.CurrentWeekOvertime, _ = worktime.HoursFromString(excess)
	rec.Accumulated, _ = worktime.HoursFromString(acc)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
}

// =============================================================================
// HOLIDAY CALENDAR (worktime.HolidayCalendar, read-only)
// =============================================================================

type HolidayCalendar struct{ s *Store }

func (v *HolidayCalendar) IsHoliday(date time.Time) bool {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var count int
	err := v.s.db.QueryRow(
		"SELECT COUNT(*) FROM holidays WHERE date = ?", date.Format(dateLayout)).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// =============================================================================
// EMPLOYEE / BRANCH REFERENCE DATA
// =============================================================================

// Employee carries the contract fields the engine needs: the weekly
// contractual hours and whether the contract type tracks overtime.
type Employee struct {
	ID              string
	Name            string
	ContractType    string
	WeeklyHours     worktime.Hours
	OvertimeTracked bool
	CreatedAt       time.Time
}

type Branch struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, contract_type, weekly_hours, overtime_tracked, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			contract_type = excluded.contract_type,
			weekly_hours = excluded.weekly_hours,
			overtime_tracked = excluded.overtime_tracked
	`
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.ContractType, emp.WeeklyHours.String(), emp.OvertimeTracked,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		emp               Employee
		contractType      sql.NullString
		weekly, createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, contract_type, weekly_hours, overtime_tracked, created_at FROM employees WHERE id = ?",
		id).Scan(&emp.ID, &emp.Name, &contractType, &weekly, &emp.OvertimeTracked, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	emp.ContractType = contractType.String
	emp.WeeklyHours, _ = worktime.HoursFromString(weekly)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, contract_type, weekly_hours, overtime_tracked, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var (
			emp               Employee
			contractType      sql.NullString
			weekly, createdAt string
		)
		if err := rows.Scan(&emp.ID, &emp.Name, &contractType, &weekly, &emp.OvertimeTracked, &createdAt); err != nil {
			return nil, err
		}
		emp.ContractType = contractType.String
		emp.WeeklyHours, _ = worktime.HoursFromString(weekly)
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) SaveBranch(ctx context.Context, b Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO branches (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`
	_, err := s.db.ExecContext(ctx, query, b.ID, b.Name, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetBranch(ctx context.Context, id string) (*Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		b         Branch
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM branches WHERE id = ?", id).Scan(&b.ID, &b.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &b, nil
}

func (s *Store) ListBranches(ctx context.Context) ([]Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM branches ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Branch
	for rows.Next() {
		var (
			b         Branch
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.Name, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

// SaveHoliday seeds the red-day table. The engine itself only reads it; this
// exists for fixtures and ops scripts.
func (s *Store) SaveHoliday(ctx context.Context, date time.Time, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO holidays (date, name) VALUES (?, ?) ON CONFLICT(date) DO UPDATE SET name = excluded.name`,
		date.Format(dateLayout), name)
	return err
}

/*
dto.go - Data transfer objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: Hours render
  as floats for display, dates as YYYY-MM-DD strings, review states as
  their persisted Korean values.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: uses these types
  - worktime/types.go: the domain model behind them
*/
package api

import (
	"time"

	"github.com/shiftwise/worktime-engine/overtime"
	"github.com/shiftwise/worktime-engine/review"
	"github.com/shiftwise/worktime-engine/store/sqlite"
	"github.com/shiftwise/worktime-engine/worktime"
)

// =============================================================================
// SCHEDULE
// =============================================================================

// SaveScheduleRequest saves one shorthand cell.
type SaveScheduleRequest struct {
	Date           string `json:"date"`  // YYYY-MM-DD
	Input          string `json:"input"` // e.g. "10-13,19-23(0.5)"
	ConfirmOverlap bool   `json:"confirm_overlap"`
}

// ScheduleDayDTO represents one planned day in API responses.
type ScheduleDayDTO struct {
	EmployeeID string  `json:"employee_id"`
	BranchID   string  `json:"branch_id"`
	Date       string  `json:"date"`
	Input      string  `json:"input"`
	RangeText  string  `json:"range_text"`
	TotalHours float64 `json:"total_hours"`
}

func scheduleDayDTO(d worktime.ScheduleDay) ScheduleDayDTO {
	return ScheduleDayDTO{
		EmployeeID: string(d.EmployeeID),
		BranchID:   string(d.BranchID),
		Date:       d.Date.Format("2006-01-02"),
		Input:      d.InputEcho,
		RangeText:  d.RangeText(),
		TotalHours: d.TotalHours.Float64(),
	}
}

// OverlapConflictDTO describes one conflicting schedule entry in an overlap
// warning response.
type OverlapConflictDTO struct {
	BranchID  string `json:"branch_id"`
	RangeText string `json:"range_text"`
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconcileRequest runs the full pipeline from pasted attendance text.
type ReconcileRequest struct {
	Month          string `json:"month"` // YYYY-MM
	EmployeeLabel  string `json:"employee_label"`
	AttendanceText string `json:"attendance_text"`
}

// ComparisonRowDTO represents one persisted plan-vs-actual row.
type ComparisonRowDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	BranchID      string `json:"branch_id"`
	Date          string `json:"date"`
	Month         string `json:"month"`
	EmployeeLabel string `json:"employee_label,omitempty"`

	ScheduledHours float64 `json:"scheduled_hours"`
	ScheduledRange string  `json:"scheduled_range"`
	ActualRange    string  `json:"actual_range"`
	ActualBreak    float64 `json:"actual_break"`
	ActualWork     float64 `json:"actual_work"`
	Difference     float64 `json:"difference"`
	PosRange       string  `json:"pos_range,omitempty"`

	Status     string `json:"status"`
	IsManual   bool   `json:"is_manual"`
	IsModified bool   `json:"is_modified"`
	IsHoliday  bool   `json:"is_holiday"`

	UpdatedAt string `json:"updated_at,omitempty"`
}

func comparisonRowDTO(row worktime.ComparisonRow) ComparisonRowDTO {
	return ComparisonRowDTO{
		ID:             row.ID,
		EmployeeID:     string(row.EmployeeID),
		BranchID:       string(row.BranchID),
		Date:           row.Date.Format("2006-01-02"),
		Month:          string(row.Month),
		EmployeeLabel:  row.EmployeeLabel,
		ScheduledHours: row.ScheduledHours.Float64(),
		ScheduledRange: row.ScheduledRangeText,
		ActualRange:    row.ActualRangeText,
		ActualBreak:    row.ActualBreak.Float64(),
		ActualWork:     row.ActualWorkHours.Float64(),
		Difference:     row.Difference.Float64(),
		PosRange:       row.PosRangeText,
		Status:         string(row.Status),
		IsManual:       row.IsManual,
		IsModified:     row.IsModified,
		IsHoliday:      row.IsHoliday,
		UpdatedAt:      row.UpdatedAt.Format(time.RFC3339),
	}
}

func comparisonRowDTOs(rows []worktime.ComparisonRow) []ComparisonRowDTO {
	out := make([]ComparisonRowDTO, len(rows))
	for i, row := range rows {
		out[i] = comparisonRowDTO(row)
	}
	return out
}

// AddManualRowRequest creates a reviewer-added row.
type AddManualRowRequest struct {
	Month         string `json:"month"`
	EmployeeLabel string `json:"employee_label,omitempty"`
}

// EditRowRequest carries the editable fields. Nil means unchanged.
type EditRowRequest struct {
	ActualRange *string  `json:"actual_range,omitempty"`
	ActualBreak *float64 `json:"actual_break,omitempty"`
	Date        *string  `json:"date,omitempty"` // manual rows only
	Status      *string  `json:"status,omitempty"`
}

// =============================================================================
// REVIEW
// =============================================================================

// ReviewStatusDTO represents one approval status instance.
type ReviewStatusDTO struct {
	EmployeeID   string `json:"employee_id"`
	BranchID     string `json:"branch_id"`
	Month        string `json:"month"`
	Status       string `json:"status"` // persisted Korean value
	EmployeeName string `json:"employee_name,omitempty"`
	BranchName   string `json:"branch_name,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func reviewStatusDTO(s review.Status) ReviewStatusDTO {
	return ReviewStatusDTO{
		EmployeeID:   string(s.Key.EmployeeID),
		BranchID:     string(s.Key.BranchID),
		Month:        string(s.Key.Month),
		Status:       string(s.State),
		EmployeeName: s.EmployeeName,
		BranchName:   s.BranchName,
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

// TransitionReviewRequest requests a state change.
type TransitionReviewRequest struct {
	Month  string `json:"month"`
	Status string `json:"status"` // target state, Korean value
	Actor  string `json:"actor"`  // "reviewer" or "payroll"
}

// =============================================================================
// OVERTIME
// =============================================================================

// AccumulateOvertimeRequest computes one employee week. ContractHours may be
// omitted to use the employee record's weekly hours.
type AccumulateOvertimeRequest struct {
	WeekStart     string   `json:"week_start"` // any date in the week
	ActualHours   float64  `json:"actual_hours"`
	ContractHours *float64 `json:"contract_hours,omitempty"`
}

// OvertimeRecordDTO represents one accumulated week.
type OvertimeRecordDTO struct {
	EmployeeID    string  `json:"employee_id"`
	WeekStart     string  `json:"week_start"`
	ActualHours   float64 `json:"actual_hours"`
	ContractHours float64 `json:"contract_hours"`
	WeekOvertime  float64 `json:"week_overtime"`
	Accumulated   float64 `json:"accumulated"`
}

func overtimeRecordDTO(rec overtime.Record) OvertimeRecordDTO {
	return OvertimeRecordDTO{
		EmployeeID:    string(rec.EmployeeID),
		WeekStart:     rec.WeekStart.Format("2006-01-02"),
		ActualHours:   rec.ActualWorkHours.Float64(),
		ContractHours: rec.ContractualHours.Float64(),
		WeekOvertime:  rec.CurrentWeekOvertime.Float64(),
		Accumulated:   rec.Accumulated.Float64(),
	}
}

// SupplySeedRequest records the one-time carried-over overtime value.
type SupplySeedRequest struct {
	Seed float64 `json:"seed"`
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ContractType    string  `json:"contract_type,omitempty"`
	WeeklyHours     float64 `json:"weekly_hours"`
	OvertimeTracked bool    `json:"overtime_tracked"`
}

func employeeDTO(e sqlite.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:              e.ID,
		Name:            e.Name,
		ContractType:    e.ContractType,
		WeeklyHours:     e.WeeklyHours.Float64(),
		OvertimeTracked: e.OvertimeTracked,
	}
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ContractType    string  `json:"contract_type,omitempty"`
	WeeklyHours     float64 `json:"weekly_hours"`
	OvertimeTracked bool    `json:"overtime_tracked"`
}

// BranchDTO represents a branch in API responses.
type BranchDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateBranchRequest is the request to create or update a branch.
type CreateBranchRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

/*
handlers.go - HTTP API handlers for the work-time reconciliation engine

PURPOSE:
  Exposes the reconciliation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Schedule:
    PUT  /api/branches/{branchID}/employees/{employeeID}/schedule
    GET  /api/branches/{branchID}/employees/{employeeID}/schedule?month=

  Reconciliation:
    POST /api/branches/{branchID}/employees/{employeeID}/reconcile
    POST /api/branches/{branchID}/employees/{employeeID}/reconcile/workbook
    GET  /api/branches/{branchID}/employees/{employeeID}/rows?month=
    POST /api/branches/{branchID}/employees/{employeeID}/rows

  Rows:
    PATCH  /api/rows/{id}
    POST   /api/rows/{id}/copy-schedule
    DELETE /api/rows/{id}

  Review:
    GET /api/branches/{branchID}/review?month=
    GET /api/branches/{branchID}/employees/{employeeID}/review?month=
    PUT /api/branches/{branchID}/employees/{employeeID}/review

  Overtime:
    POST /api/employees/{employeeID}/overtime
    PUT  /api/employees/{employeeID}/overtime/seed
    GET  /api/employees/{employeeID}/overtime?from=&to=

  Reference data:
    GET/POST /api/employees, GET/POST /api/branches

ERROR HANDLING:
  Domain errors map onto HTTP statuses via the classifier helpers:
  - 400: invalid reviewer input (bad shorthand, bad range, bad date)
  - 404: row or status not found
  - 409: overlap warning (requires confirmation) or run already in flight
  - 422: computation suspended awaiting a seed value
  - 423: payroll lock
  - 500: everything else

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise/worktime-engine/overtime"
	"github.com/shiftwise/worktime-engine/review"
	"github.com/shiftwise/worktime-engine/store/sqlite"
	"github.com/shiftwise/worktime-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Schedule *worktime.ScheduleService
	Reviews  *review.Machine
	Overtime *overtime.Calculator

	// inFlight guards against concurrent reconciliation runs for the same
	// employee/branch/month. Keys are review.Key IDs.
	mu       sync.Mutex
	inFlight map[string]bool
}

// NewHandler wires the domain services over the given store.
func NewHandler(store *sqlite.Store) *Handler {
	machine := review.NewMachine(store.Reviews())
	return &Handler{
		Store:    store,
		Schedule: worktime.NewScheduleService(store.Schedules(), machine),
		Reviews:  machine,
		Overtime: overtime.NewCalculator(store.Overtime()),
		inFlight: make(map[string]bool),
	}
}

// claimRun marks a composite key as having a run in progress. Returns false
// when one already is.
func (h *Handler) claimRun(key review.Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight[key.ID()] {
		return false
	}
	h.inFlight[key.ID()] = true
	return true
}

func (h *Handler) releaseRun(key review.Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inFlight, key.ID())
}

func urlKey(r *http.Request, month worktime.Month) review.Key {
	return review.Key{
		EmployeeID: worktime.EmployeeID(chi.URLParam(r, "employeeID")),
		BranchID:   worktime.BranchID(chi.URLParam(r, "branchID")),
		Month:      month,
	}
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// SaveScheduleCell parses and persists one shorthand cell.
func (h *Handler) SaveScheduleCell(w http.ResponseWriter, r *http.Request) {
	employeeID := worktime.EmployeeID(chi.URLParam(r, "employeeID"))
	branchID := worktime.BranchID(chi.URLParam(r, "branchID"))

	var req SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	day, err := h.Schedule.SaveShorthand(r.Context(), employeeID, branchID, date, req.Input, req.ConfirmOverlap)
	if err != nil {
		if warning, ok := worktime.IsOverlapWarning(err); ok {
			conflicts := make([]OverlapConflictDTO, len(warning.Conflicts))
			for i, c := range warning.Conflicts {
				conflicts[i] = OverlapConflictDTO{BranchID: string(c.BranchID), RangeText: c.RangeText()}
			}
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":                 warning.Error(),
				"requires_confirmation": true,
				"conflicts":             conflicts,
			})
			return
		}
		writeDomainError(w, "Failed to save schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, scheduleDayDTO(day))
}

// ListSchedule returns the planned days for one employee/branch/month.
func (h *Handler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	employeeID := worktime.EmployeeID(chi.URLParam(r, "employeeID"))
	branchID := worktime.BranchID(chi.URLParam(r, "branchID"))
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	days, err := h.Store.Schedules().ListMonth(r.Context(), employeeID, branchID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedule", err)
		return
	}

	dtos := make([]ScheduleDayDTO, len(days))
	for i, d := range days {
		dtos[i] = scheduleDayDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RECONCILIATION HANDLERS
// =============================================================================

// RunReconciliation runs the full pipeline from pasted attendance text.
func (h *Handler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	records := worktime.ParseAttendanceBlock(req.AttendanceText)
	h.reconcile(w, r, req.Month, req.EmployeeLabel, records)
}

// RunReconciliationWorkbook runs the same pipeline fed from an uploaded .xlsx
// export (multipart field "file", plus "month" and "employee_label" fields).
func (h *Handler) RunReconciliationWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing workbook file", err)
		return
	}
	defer file.Close()

	records, err := worktime.ParseAttendanceWorkbook(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read workbook", err)
		return
	}

	h.reconcile(w, r, r.FormValue("month"), r.FormValue("employee_label"), records)
}

// reconcile is the shared run body behind both ingestion paths.
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request, monthStr, label string, records []worktime.AttendanceRecord) {
	month := worktime.Month(monthStr)
	if _, err := month.FirstDay(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	key := urlKey(r, month)

	if !h.claimRun(key) {
		writeError(w, http.StatusConflict, "Reconciliation already running for this key", worktime.ErrRunInFlight)
		return
	}
	defer h.releaseRun(key)

	ctx := r.Context()

	// Entering review is a side effect of the run; a payroll-locked key
	// rejects it before anything is computed.
	employeeName, branchName := h.displayNames(r, key)
	if employeeName == "" {
		employeeName = label
	}
	if _, err := h.Reviews.Ensure(ctx, key, employeeName, branchName); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to ensure review status", err)
		return
	}
	if _, err := h.Reviews.MarkInProgress(ctx, key); err != nil {
		writeDomainError(w, "Reconciliation rejected", err)
		return
	}

	scheduleDays, err := h.Store.Schedules().ListMonth(ctx, key.EmployeeID, key.BranchID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}
	manualRows, err := h.Store.Rows().ListManual(ctx, key.EmployeeID, key.BranchID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load manual rows", err)
		return
	}

	session := worktime.BuildSession(key.EmployeeID, key.BranchID, month, label,
		scheduleDays, records, manualRows, h.Store.Calendar(), time.Now().UTC())

	if err := session.Persist(ctx, h.Store.Rows()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist rows", err)
		return
	}

	writeJSON(w, http.StatusOK, comparisonRowDTOs(session.Rows))
}

// ListRows returns the persisted comparison rows for one month.
func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	key := urlKey(r, month)

	rows, err := h.Store.Rows().ListMonth(r.Context(), key.EmployeeID, key.BranchID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rows", err)
		return
	}
	writeJSON(w, http.StatusOK, comparisonRowDTOs(rows))
}

// AddManualRow creates a reviewer-added row dated the 1st of the month.
func (h *Handler) AddManualRow(w http.ResponseWriter, r *http.Request) {
	var req AddManualRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	month := worktime.Month(req.Month)
	key := urlKey(r, month)

	if denied := h.rejectIfLocked(w, r, key.EmployeeID, key.BranchID, month); denied {
		return
	}

	row, err := worktime.AddManualRow(key.EmployeeID, key.BranchID, month, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	row.EmployeeLabel = req.EmployeeLabel

	if err := h.Store.Rows().Upsert(r.Context(), row); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save row", err)
		return
	}
	writeJSON(w, http.StatusCreated, comparisonRowDTO(row))
}

// =============================================================================
// ROW HANDLERS
// =============================================================================

// EditRow applies a reviewer edit and recomputes the derived fields.
func (h *Handler) EditRow(w http.ResponseWriter, r *http.Request) {
	var req EditRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	row, ok := h.loadUnlockedRow(w, r)
	if !ok {
		return
	}

	edit := worktime.RowEdit{ActualRangeText: req.ActualRange}
	if req.ActualBreak != nil {
		b := worktime.HoursFromFloat(*req.ActualBreak)
		edit.ActualBreak = &b
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		edit.Date = &d
	}
	if req.Status != nil {
		s := worktime.RowStatus(*req.Status)
		edit.Status = &s
	}

	updated, err := worktime.ApplyEdit(*row, edit, time.Now().UTC())
	if err != nil {
		writeDomainError(w, "Edit rejected", err)
		return
	}

	if err := h.Store.Rows().Upsert(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save row", err)
		return
	}
	writeJSON(w, http.StatusOK, comparisonRowDTO(updated))
}

// CopyScheduleTime copies the planned time into the actuals and acknowledges
// the row.
func (h *Handler) CopyScheduleTime(w http.ResponseWriter, r *http.Request) {
	row, ok := h.loadUnlockedRow(w, r)
	if !ok {
		return
	}

	declaredBreak := worktime.ZeroHours()
	days, err := h.Store.Schedules().ListByEmployeeDate(r.Context(), row.EmployeeID, row.Date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}
	for _, day := range days {
		if day.BranchID == row.BranchID {
			declaredBreak = day.DeclaredBreak()
			break
		}
	}

	updated, err := worktime.CopyScheduleTime(*row, declaredBreak, time.Now().UTC())
	if err != nil {
		writeDomainError(w, "Copy rejected", err)
		return
	}

	if err := h.Store.Rows().Upsert(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save row", err)
		return
	}
	writeJSON(w, http.StatusOK, comparisonRowDTO(updated))
}

// DeleteRow removes a row on explicit reviewer request.
func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	row, ok := h.loadUnlockedRow(w, r)
	if !ok {
		return
	}

	if err := h.Store.Rows().Delete(r.Context(), row.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete row", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadUnlockedRow fetches the target row and enforces the payroll lock.
func (h *Handler) loadUnlockedRow(w http.ResponseWriter, r *http.Request) (*worktime.ComparisonRow, bool) {
	id := chi.URLParam(r, "id")

	row, err := h.Store.Rows().Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get row", err)
		return nil, false
	}
	if row == nil {
		writeError(w, http.StatusNotFound, "Row not found", worktime.ErrRowNotFound)
		return nil, false
	}

	if denied := h.rejectIfLocked(w, r, row.EmployeeID, row.BranchID, row.Month); denied {
		return nil, false
	}
	return row, true
}

// rejectIfLocked writes the lock error and reports true when the month is
// payroll-confirmed.
func (h *Handler) rejectIfLocked(w http.ResponseWriter, r *http.Request, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) bool {
	locked, err := h.Reviews.IsPayrollLocked(r.Context(), employeeID, branchID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check payroll lock", err)
		return true
	}
	if locked {
		writeError(w, http.StatusLocked, "Payroll confirmed: record is locked", worktime.ErrPayrollLocked)
		return true
	}
	return false
}

// =============================================================================
// REVIEW HANDLERS
// =============================================================================

// GetReviewStatus returns the status for one key, lazily seeding it on first
// touch.
func (h *Handler) GetReviewStatus(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	key := urlKey(r, month)

	employeeName, branchName := h.displayNames(r, key)
	status, err := h.Reviews.Ensure(r.Context(), key, employeeName, branchName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get review status", err)
		return
	}
	writeJSON(w, http.StatusOK, reviewStatusDTO(status))
}

// TransitionReview applies a guarded state change.
func (h *Handler) TransitionReview(w http.ResponseWriter, r *http.Request) {
	var req TransitionReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	month := worktime.Month(req.Month)
	if _, err := month.FirstDay(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	key := urlKey(r, month)

	employeeName, branchName := h.displayNames(r, key)
	if _, err := h.Reviews.Ensure(r.Context(), key, employeeName, branchName); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to ensure review status", err)
		return
	}

	status, err := h.Reviews.Transition(r.Context(), key, review.State(req.Status), review.Actor(req.Actor))
	if err != nil {
		if errors.Is(err, review.ErrInvalidState) {
			writeError(w, http.StatusBadRequest, "Unknown review status", err)
			return
		}
		if errors.Is(err, review.ErrTransitionDenied) {
			writeError(w, http.StatusConflict, "Transition denied", err)
			return
		}
		writeDomainError(w, "Transition failed", err)
		return
	}
	writeJSON(w, http.StatusOK, reviewStatusDTO(status))
}

// ListReviewStatuses returns every status for a branch/month (the reviewer
// dashboard view).
func (h *Handler) ListReviewStatuses(w http.ResponseWriter, r *http.Request) {
	branchID := worktime.BranchID(chi.URLParam(r, "branchID"))
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	statuses, err := h.Store.Reviews().ListMonth(r.Context(), branchID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list review statuses", err)
		return
	}

	dtos := make([]ReviewStatusDTO, len(statuses))
	for i, s := range statuses {
		dtos[i] = reviewStatusDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) displayNames(r *http.Request, key review.Key) (string, string) {
	employeeName, branchName := "", ""
	if emp, err := h.Store.GetEmployee(r.Context(), string(key.EmployeeID)); err == nil && emp != nil {
		employeeName = emp.Name
	}
	if branch, err := h.Store.GetBranch(r.Context(), string(key.BranchID)); err == nil && branch != nil {
		branchName = branch.Name
	}
	return employeeName, branchName
}

// =============================================================================
// OVERTIME HANDLERS
// =============================================================================

// AccumulateOvertime computes and persists one employee week. A suspended
// computation answers 422 with an awaiting_seed payload instead of failing.
func (h *Handler) AccumulateOvertime(w http.ResponseWriter, r *http.Request) {
	employeeID := worktime.EmployeeID(chi.URLParam(r, "employeeID"))

	var req AccumulateOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_start format (use YYYY-MM-DD)", err)
		return
	}

	// Carryover only applies to contract types that track overtime.
	emp, err := h.Store.GetEmployee(r.Context(), string(employeeID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if !emp.OvertimeTracked {
		writeError(w, http.StatusBadRequest, "Employee's contract type does not track overtime", nil)
		return
	}

	contract := emp.WeeklyHours
	if req.ContractHours != nil {
		contract = worktime.HoursFromFloat(*req.ContractHours)
	}

	rec, err := h.Overtime.Accumulate(r.Context(), employeeID, weekStart,
		worktime.HoursFromFloat(req.ActualHours), contract)
	if err != nil {
		if worktime.IsAwaitingInput(err) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":         err.Error(),
				"awaiting_seed": true,
				"employee_id":   string(employeeID),
				"week_start":    overtime.WeekStart(weekStart).Format("2006-01-02"),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to accumulate overtime", err)
		return
	}
	writeJSON(w, http.StatusOK, overtimeRecordDTO(rec))
}

// SupplyOvertimeSeed records the one-time carried-over value.
func (h *Handler) SupplyOvertimeSeed(w http.ResponseWriter, r *http.Request) {
	employeeID := worktime.EmployeeID(chi.URLParam(r, "employeeID"))

	var req SupplySeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Overtime.SupplySeed(r.Context(), employeeID, worktime.HoursFromFloat(req.Seed)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save seed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOvertime returns the weekly records in a date range.
func (h *Handler) ListOvertime(w http.ResponseWriter, r *http.Request) {
	employeeID := worktime.EmployeeID(chi.URLParam(r, "employeeID"))

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	records, err := h.Store.Overtime().ListRange(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overtime", err)
		return
	}

	dtos := make([]OvertimeRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = overtimeRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = employeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := sqlite.Employee{
		ID:              req.ID,
		Name:            req.Name,
		ContractType:    req.ContractType,
		WeeklyHours:     worktime.HoursFromFloat(req.WeeklyHours),
		OvertimeTracked: req.OvertimeTracked,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// ListBranches returns all branches.
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Store.ListBranches(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list branches", err)
		return
	}

	dtos := make([]BranchDTO, len(branches))
	for i, b := range branches {
		dtos[i] = BranchDTO{ID: b.ID, Name: b.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBranch creates or updates a branch.
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	if err := h.Store.SaveBranch(r.Context(), sqlite.Branch{ID: req.ID, Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save branch", err)
		return
	}
	writeJSON(w, http.StatusCreated, BranchDTO{ID: req.ID, Name: req.Name})
}

// =============================================================================
// HELPERS
// =============================================================================

func monthParam(w http.ResponseWriter, r *http.Request) (worktime.Month, bool) {
	month := worktime.Month(r.URL.Query().Get("month"))
	if _, err := month.FirstDay(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return "", false
	}
	return month, true
}

// writeDomainError maps a classified domain error onto an HTTP status.
func writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case worktime.IsClientError(err):
		writeError(w, http.StatusBadRequest, msg, err)
	case worktime.IsGuardError(err):
		writeError(w, http.StatusLocked, msg, err)
	case worktime.IsAwaitingInput(err):
		writeError(w, http.StatusUnprocessableEntity, msg, err)
	case errors.Is(err, worktime.ErrRowNotFound):
		writeError(w, http.StatusNotFound, msg, err)
	default:
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response as JSON.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]any{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	if hinter, ok := err.(interface{ Hint() string }); ok {
		body["hint"] = hinter.Hint()
	}
	writeJSON(w, status, body)
}

/*
Package review implements the per-employee/branch/month approval state
machine that gates schedule and comparison-row mutability.

PURPOSE:
  Every (employee, branch, month) combination progresses through four
  stages. The persisted values keep the original Korean strings the rest
  of the back office reads:

    검토전          not started
    검토중          in progress
    근무시간검토완료  hours reviewed (edits locked)
    급여확정완료     payroll confirmed (fully locked)

TRANSITIONS:
  - Starting a reconciliation run on a 검토전 key moves it to 검토중
    (side effect of entering review, not a user action).
  - Reviewer: 검토중 -> 근무시간검토완료, and the explicit undo back.
  - Payroll (external collaborator): 근무시간검토완료 <-> 급여확정완료.
  - Once 급여확정완료, NOTHING but payroll's own unconfirm is allowed;
    any engine write is rejected with a guard error.

SCOPING:
  State is per branch. An employee at two branches has two independent
  instances for the same month, and a missing branch key is seeded
  independently as 검토전 - presence at a sibling branch implies nothing.
*/
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise/worktime-engine/worktime"
)

// =============================================================================
// STATES AND ACTORS
// =============================================================================

type State string

const (
	StateNotStarted       State = "검토전"
	StateInProgress       State = "검토중"
	StateHoursReviewed    State = "근무시간검토완료"
	StatePayrollConfirmed State = "급여확정완료"
)

func (s State) Valid() bool {
	switch s {
	case StateNotStarted, StateInProgress, StateHoursReviewed, StatePayrollConfirmed:
		return true
	}
	return false
}

// Actor identifies who is driving a transition. Payroll confirmation is owned
// by the external payroll collaborator, never this engine.
type Actor string

const (
	ActorReviewer Actor = "reviewer"
	ActorEngine   Actor = "engine"
	ActorPayroll  Actor = "payroll"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTransitionDenied is returned for any transition the machine does not
	// allow for the given actor.
	ErrTransitionDenied = errors.New("review transition denied")

	// ErrInvalidState is returned for unknown target states.
	ErrInvalidState = errors.New("invalid review state")
)

// TransitionError carries the rejected transition's context.
type TransitionError struct {
	Key     Key
	From    State
	To      State
	Actor   Actor
	Locked  bool // true when the rejection is the payroll lock
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("review %s: %s -> %s by %s denied", e.Key.ID(), e.From, e.To, e.Actor)
}

func (e *TransitionError) Unwrap() error {
	if e.Locked {
		return worktime.ErrPayrollLocked
	}
	return ErrTransitionDenied
}

// =============================================================================
// STATUS RECORD
// =============================================================================

// Key is the composite identity of one status instance.
type Key struct {
	EmployeeID worktime.EmployeeID
	BranchID   worktime.BranchID
	Month      worktime.Month
}

// ID renders the persisted composite id, employeeID_branchID_month.
func (k Key) ID() string {
	return fmt.Sprintf("%s_%s_%s", k.EmployeeID, k.BranchID, k.Month)
}

// Status is the persisted record. Names are denormalized for display.
type Status struct {
	Key          Key
	State        State
	EmployeeName string
	BranchName   string
	UpdatedAt    time.Time
}

// Store persists review statuses by composite key.
type Store interface {
	// Get returns nil when no record exists for the key.
	Get(ctx context.Context, key Key) (*Status, error)
	Save(ctx context.Context, status Status) error
	// ListMonth returns all statuses for a branch/month (reviewer dashboard).
	ListMonth(ctx context.Context, branchID worktime.BranchID, month worktime.Month) ([]Status, error)
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine applies guarded transitions over a Store.
type Machine struct {
	store Store
}

func NewMachine(store Store) *Machine {
	return &Machine{store: store}
}

// Ensure lazily creates the key as 검토전 on first touch and returns the
// current status. Each missing branch key is seeded independently; state at
// the employee's other branches is never consulted.
func (m *Machine) Ensure(ctx context.Context, key Key, employeeName, branchName string) (Status, error) {
	existing, err := m.store.Get(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	status := Status{
		Key:          key,
		State:        StateNotStarted,
		EmployeeName: employeeName,
		BranchName:   branchName,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := m.store.Save(ctx, status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// Transition validates and persists a state change. The persisted state is
// left untouched on any rejection.
func (m *Machine) Transition(ctx context.Context, key Key, target State, actor Actor) (Status, error) {
	if !target.Valid() {
		return Status{}, fmt.Errorf("%w: %q", ErrInvalidState, target)
	}

	current, err := m.store.Get(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if current == nil {
		return Status{}, fmt.Errorf("review status %s not found", key.ID())
	}
	if current.State == target {
		return *current, nil
	}

	if !allowed(current.State, target, actor) {
		return *current, &TransitionError{
			Key:    key,
			From:   current.State,
			To:     target,
			Actor:  actor,
			Locked: current.State == StatePayrollConfirmed && actor != ActorPayroll,
		}
	}

	updated := *current
	updated.State = target
	updated.UpdatedAt = time.Now().UTC()
	if err := m.store.Save(ctx, updated); err != nil {
		return *current, err
	}
	return updated, nil
}

// MarkInProgress is the entering-review side effect of a reconciliation run:
// 검토전 advances to 검토중, any other state is left alone. A payroll-locked
// key rejects the run before any row is written.
func (m *Machine) MarkInProgress(ctx context.Context, key Key) (Status, error) {
	current, err := m.store.Get(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if current == nil {
		return Status{}, fmt.Errorf("review status %s not found", key.ID())
	}
	switch current.State {
	case StatePayrollConfirmed:
		return *current, &TransitionError{Key: key, From: current.State, To: StateInProgress, Actor: ActorEngine, Locked: true}
	case StateNotStarted:
		return m.Transition(ctx, key, StateInProgress, ActorEngine)
	default:
		return *current, nil
	}
}

// IsPayrollLocked implements worktime.LockChecker. A missing record is not
// locked.
func (m *Machine) IsPayrollLocked(ctx context.Context, employeeID worktime.EmployeeID, branchID worktime.BranchID, month worktime.Month) (bool, error) {
	status, err := m.store.Get(ctx, Key{EmployeeID: employeeID, BranchID: branchID, Month: month})
	if err != nil {
		return false, err
	}
	return status != nil && status.State == StatePayrollConfirmed, nil
}

// allowed encodes the transition table.
func allowed(from, to State, actor Actor) bool {
	switch {
	case from == StatePayrollConfirmed:
		// Fully locked: only payroll's own unconfirm leaves this state.
		return actor == ActorPayroll && to == StateHoursReviewed
	case from == StateNotStarted && to == StateInProgress:
		return actor == ActorEngine || actor == ActorReviewer
	case from == StateInProgress && to == StateHoursReviewed:
		return actor == ActorReviewer
	case from == StateHoursReviewed && to == StateInProgress:
		// Explicit "undo complete".
		return actor == ActorReviewer
	case from == StateHoursReviewed && to == StatePayrollConfirmed:
		return actor == ActorPayroll
	}
	return false
}

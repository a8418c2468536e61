package view

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pipetally/pipetally/internal/domain/component"
)

// EditorState is the partial-input editor's state machine position.
type EditorState string

const (
	StateViewing                     EditorState = "viewing"
	StateEditing                     EditorState = "editing"
	StatePendingRollbackConfirmation EditorState = "pendingRollbackConfirmation"
)

// InvalidRevertDelay is how long an out-of-range draft stays marked
// invalid before auto-reverting to the last committed value.
const InvalidRevertDelay = 2 * time.Second

// CommitFunc receives exactly one call per committed user action. A
// rollback carries its confirmation; forward writes pass nil.
type CommitFunc func(componentID, milestone string, percent int, conf *component.Confirmation)

// PartialEditor is the state machine behind one percentage input.
//
// Commit happens on Enter or blur; Escape cancels. An out-of-range or
// unparseable draft marks the input invalid and auto-reverts after
// InvalidRevertDelay unless the timer is cancelled by refocus or unmount.
// Decreasing commits are parked in pendingRollbackConfirmation until
// confirmed or cancelled.
type PartialEditor struct {
	mu sync.Mutex

	componentID string
	milestone   string
	commit      CommitFunc

	state     EditorState
	committed int
	draft     string
	invalid   bool
	proposed  int

	revertTimer *time.Timer
}

// NewPartialEditor creates an editor in viewing state over the last
// committed canonical value.
func NewPartialEditor(componentID, milestone string, committed int, commit CommitFunc) *PartialEditor {
	return &PartialEditor{
		componentID: componentID,
		milestone:   milestone,
		commit:      commit,
		state:       StateViewing,
		committed:   committed,
		draft:       strconv.Itoa(committed),
	}
}

// State returns the current state machine position.
func (e *PartialEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns the current draft text.
func (e *PartialEditor) Draft() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Invalid reports whether the draft is marked invalid.
func (e *PartialEditor) Invalid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.invalid
}

// Committed returns the last committed canonical value.
func (e *PartialEditor) Committed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// Focus enters editing. Refocusing an invalid input cancels the pending
// auto-revert so the user can fix the draft in place.
func (e *PartialEditor) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelRevertLocked()
	e.invalid = false
	if e.state == StateViewing {
		e.state = StateEditing
		e.draft = strconv.Itoa(e.committed)
	}
}

// SetDraft replaces the draft text while editing.
func (e *PartialEditor) SetDraft(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateEditing {
		e.draft = text
	}
}

// HandleEnter commits the draft. It reports handled=true so row-level
// keyboard handlers never see the event, and advance=true after a
// successful commit so focus can move to the next partial input.
func (e *PartialEditor) HandleEnter() (handled, advance bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return e.state == StatePendingRollbackConfirmation, false
	}
	return true, e.commitLocked()
}

// Blur commits the draft without moving focus.
func (e *PartialEditor) Blur() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateEditing {
		e.commitLocked()
	}
}

// HandleEscape cancels editing: the draft reverts immediately to the last
// committed value and no update is emitted. Reports handled=true so the
// event stops at the editor.
func (e *PartialEditor) HandleEscape() (handled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateEditing:
		e.cancelRevertLocked()
		e.revertLocked()
		return true
	case StatePendingRollbackConfirmation:
		e.cancelRollbackLocked()
		return true
	default:
		return false
	}
}

// ConfirmRollback completes a parked decreasing commit with the supplied
// confirmation. The update callback fires exactly once.
func (e *PartialEditor) ConfirmRollback(conf component.Confirmation) error {
	if err := component.ValidateConfirmation(conf); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePendingRollbackConfirmation {
		return nil
	}
	e.committed = e.proposed
	e.state = StateViewing
	e.draft = strconv.Itoa(e.committed)
	e.commit(e.componentID, e.milestone, e.committed, &conf)
	return nil
}

// CancelRollback discards a parked decreasing commit: no update is
// emitted and the displayed value reverts to the current committed value.
func (e *PartialEditor) CancelRollback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelRollbackLocked()
}

// Unmount releases the editor's timer. Must be called on every teardown
// path so no revert fires against a dead control.
func (e *PartialEditor) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelRevertLocked()
}

// commitLocked runs the commit path. Returns true when a value was
// committed (including via the rollback park, which defers the callback).
func (e *PartialEditor) commitLocked() bool {
	value, err := strconv.Atoi(strings.TrimSpace(e.draft))
	if err != nil || component.ValidateWritePercent(value) != nil {
		e.invalid = true
		e.scheduleRevertLocked()
		return false
	}

	if value == e.committed {
		// Unchanged commit is a silent no-op.
		e.state = StateViewing
		e.invalid = false
		return false
	}

	if component.EvaluateRollback(e.committed, value) == component.DecisionRequireConfirmation {
		e.proposed = value
		e.state = StatePendingRollbackConfirmation
		return false
	}

	e.committed = value
	e.state = StateViewing
	e.invalid = false
	e.draft = strconv.Itoa(value)
	e.commit(e.componentID, e.milestone, value, nil)
	return true
}

func (e *PartialEditor) cancelRollbackLocked() {
	if e.state == StatePendingRollbackConfirmation {
		e.revertLocked()
	}
}

func (e *PartialEditor) revertLocked() {
	e.state = StateViewing
	e.invalid = false
	e.proposed = 0
	e.draft = strconv.Itoa(e.committed)
}

func (e *PartialEditor) scheduleRevertLocked() {
	e.cancelRevertLocked()
	e.revertTimer = time.AfterFunc(InvalidRevertDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.invalid {
			e.revertLocked()
		}
	})
}

func (e *PartialEditor) cancelRevertLocked() {
	if e.revertTimer != nil {
		e.revertTimer.Stop()
		e.revertTimer = nil
	}
}

// DiscreteToggle is the checkbox counterpart of PartialEditor. Checking
// writes 100 immediately; unchecking is a decreasing write and goes
// through the same rollback gate.
type DiscreteToggle struct {
	mu sync.Mutex

	componentID string
	milestone   string
	commit      CommitFunc

	checked bool
	pending bool
}

// NewDiscreteToggle creates a toggle over the current checked state.
func NewDiscreteToggle(componentID, milestone string, checked bool, commit CommitFunc) *DiscreteToggle {
	return &DiscreteToggle{
		componentID: componentID,
		milestone:   milestone,
		commit:      commit,
		checked:     checked,
	}
}

// Checked reports the toggle's committed state.
func (d *DiscreteToggle) Checked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checked
}

// PendingConfirmation reports whether an uncheck is parked on the
// rollback gate.
func (d *DiscreteToggle) PendingConfirmation() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Toggle flips the checkbox. Checking commits 100 at once; unchecking
// parks on the rollback gate until confirmed or cancelled.
func (d *DiscreteToggle) Toggle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		return
	}
	if !d.checked {
		d.checked = true
		d.commit(d.componentID, d.milestone, 100, nil)
		return
	}
	d.pending = true
}

// ConfirmRollback completes a parked uncheck, emitting the zero write
// with its confirmation exactly once.
func (d *DiscreteToggle) ConfirmRollback(conf component.Confirmation) error {
	if err := component.ValidateConfirmation(conf); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return nil
	}
	d.pending = false
	d.checked = false
	d.commit(d.componentID, d.milestone, 0, &conf)
	return nil
}

// CancelRollback discards a parked uncheck; the checkbox stays checked
// and no update is emitted.
func (d *DiscreteToggle) CancelRollback() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = false
}

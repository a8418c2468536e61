package component

import "strings"

// Decision is the outcome of evaluating a proposed milestone change.
type Decision string

const (
	// DecisionProceed: the write may commit immediately.
	DecisionProceed Decision = "proceed"
	// DecisionRequireConfirmation: the value decreases; the write is held
	// until a rollback confirmation is supplied.
	DecisionRequireConfirmation Decision = "require_confirmation"
)

// EvaluateRollback decides whether a proposed canonical value needs
// rollback confirmation. Any decrease does; equal or increasing values
// proceed immediately.
func EvaluateRollback(current, proposed int) Decision {
	if proposed < current {
		return DecisionRequireConfirmation
	}
	return DecisionProceed
}

// Reason is a rollback reason from the fixed enumeration.
type Reason string

const (
	ReasonDataEntryError   Reason = "data_entry_error"
	ReasonFailedInspection Reason = "failed_inspection"
	ReasonReworkRequired   Reason = "rework_required"
	ReasonScopeChange      Reason = "scope_change"
	ReasonOther            Reason = "other"
)

var reasonLabels = map[Reason]string{
	ReasonDataEntryError:   "Data entry error",
	ReasonFailedInspection: "Failed inspection",
	ReasonReworkRequired:   "Rework required",
	ReasonScopeChange:      "Scope change",
	ReasonOther:            "Other",
}

// Reasons returns the rollback reasons in their fixed display order.
func Reasons() []Reason {
	return []Reason{
		ReasonDataEntryError,
		ReasonFailedInspection,
		ReasonReworkRequired,
		ReasonScopeChange,
		ReasonOther,
	}
}

// Label returns the display label for a reason and whether it is known.
func (r Reason) Label() (string, bool) {
	label, ok := reasonLabels[r]
	return label, ok
}

// Confirmation carries the user-supplied justification for a decreasing
// milestone write. It travels with the write as metadata.
type Confirmation struct {
	Reason      Reason `json:"reason"`
	ReasonLabel string `json:"reason_label"`
	Details     string `json:"details,omitempty"`
}

// minOtherDetails is the minimum free-text length when "other" is chosen.
const minOtherDetails = 10

// ValidateConfirmation checks that a confirmation names a known reason
// and, for "other", carries enough free-text detail.
func ValidateConfirmation(conf Confirmation) error {
	if _, ok := conf.Reason.Label(); !ok {
		return ErrUnknownReason
	}
	if conf.Reason == ReasonOther && len(strings.TrimSpace(conf.Details)) < minOtherDetails {
		return ErrDetailsRequired
	}
	return nil
}

// NewConfirmation builds a validated confirmation, filling in the display
// label for the chosen reason.
func NewConfirmation(reason Reason, details string) (Confirmation, error) {
	conf := Confirmation{Reason: reason, Details: strings.TrimSpace(details)}
	label, ok := reason.Label()
	if !ok {
		return Confirmation{}, ErrUnknownReason
	}
	conf.ReasonLabel = label
	if err := ValidateConfirmation(conf); err != nil {
		return Confirmation{}, err
	}
	return conf, nil
}

package component_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipetally/pipetally/internal/domain/component"
)

func TestEvaluateRollback(t *testing.T) {
	require.Equal(t, component.DecisionProceed, component.EvaluateRollback(0, 100))
	require.Equal(t, component.DecisionProceed, component.EvaluateRollback(50, 75))
	require.Equal(t, component.DecisionProceed, component.EvaluateRollback(50, 50))
	require.Equal(t, component.DecisionRequireConfirmation, component.EvaluateRollback(100, 0))
	require.Equal(t, component.DecisionRequireConfirmation, component.EvaluateRollback(50, 25))
	require.Equal(t, component.DecisionRequireConfirmation, component.EvaluateRollback(1, 0))
}

func TestReasons_OrderAndLabels(t *testing.T) {
	reasons := component.Reasons()
	require.Equal(t, []component.Reason{
		component.ReasonDataEntryError,
		component.ReasonFailedInspection,
		component.ReasonReworkRequired,
		component.ReasonScopeChange,
		component.ReasonOther,
	}, reasons)

	label, ok := component.ReasonDataEntryError.Label()
	require.True(t, ok)
	require.Equal(t, "Data entry error", label)

	_, ok = component.Reason("bogus").Label()
	require.False(t, ok)
}

func TestNewConfirmation(t *testing.T) {
	conf, err := component.NewConfirmation(component.ReasonFailedInspection, "")
	require.NoError(t, err)
	require.Equal(t, "Failed inspection", conf.ReasonLabel)
}

func TestNewConfirmation_UnknownReason(t *testing.T) {
	_, err := component.NewConfirmation(component.Reason("bogus"), "")
	require.ErrorIs(t, err, component.ErrUnknownReason)
}

func TestNewConfirmation_OtherRequiresDetails(t *testing.T) {
	_, err := component.NewConfirmation(component.ReasonOther, "")
	require.ErrorIs(t, err, component.ErrDetailsRequired)

	_, err = component.NewConfirmation(component.ReasonOther, "   too short  ")
	require.ErrorIs(t, err, component.ErrDetailsRequired)

	conf, err := component.NewConfirmation(component.ReasonOther, "support clash found in field")
	require.NoError(t, err)
	require.Equal(t, "Other", conf.ReasonLabel)
	require.Equal(t, "support clash found in field", conf.Details)
}

func TestValidateConfirmation_OtherDetailsWhitespace(t *testing.T) {
	err := component.ValidateConfirmation(component.Confirmation{
		Reason:  component.ReasonOther,
		Details: "         \t\n  a",
	})
	require.ErrorIs(t, err, component.ErrDetailsRequired)
}

package mcp

import (
	"errors"
	"fmt"

	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, component.ErrComponentNotFound):
		return &APIError{Code: "COMPONENT_NOT_FOUND", Message: "component not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, drawing.ErrDrawingNotFound):
		return &APIError{Code: "DRAWING_NOT_FOUND", Message: "drawing not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, component.ErrUpdateForbidden):
		return &APIError{Code: "UPDATE_FORBIDDEN", Message: "component is read-only for this account", RecoveryHint: "Ask a foreman to grant update permission"}
	case errors.Is(err, component.ErrUnknownMilestone):
		return &APIError{Code: "UNKNOWN_MILESTONE", Message: "milestone not in component template", RecoveryHint: "Use a milestone name from the component's milestone list"}
	case errors.Is(err, component.ErrValueOutOfRange):
		return &APIError{Code: "INVALID_VALUE", Message: "milestone value out of range", RecoveryHint: "Values are 0-100; discrete milestones accept only 0 or 100"}
	case errors.Is(err, component.ErrRollbackConfirmationRequired):
		return &APIError{
			Code:         "ROLLBACK_CONFIRMATION_REQUIRED",
			Message:      "decreasing a milestone requires rollback confirmation",
			Details:      map[string]any{"reasons": component.Reasons()},
			RecoveryHint: "Retry with a confirmation naming one of the listed reasons; 'other' needs details",
		}
	case errors.Is(err, component.ErrUnknownReason):
		return &APIError{Code: "INVALID_CONFIRMATION", Message: "unknown rollback reason", Details: map[string]any{"reasons": component.Reasons()}}
	case errors.Is(err, component.ErrDetailsRequired):
		return &APIError{Code: "INVALID_CONFIRMATION", Message: "rollback details required", RecoveryHint: "The 'other' reason needs at least 10 characters of detail"}
	case errors.Is(err, component.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "component modified by another writer", RecoveryHint: "Re-read the component and retry"}
	case errors.Is(err, component.ErrOffline):
		return &APIError{Code: "OFFLINE", Message: "network unavailable", RecoveryHint: "Retry once connectivity is restored"}
	case errors.Is(err, component.ErrInvalidInput), errors.Is(err, drawing.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

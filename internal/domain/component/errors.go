package component

import "errors"

var (
	// ErrComponentNotFound indicates the component doesn't exist.
	ErrComponentNotFound = errors.New("component not found")
	// ErrUpdateForbidden indicates the caller lacks update permission for
	// the component.
	ErrUpdateForbidden = errors.New("component update not permitted")
	// ErrUnknownMilestone indicates the milestone name has no matching
	// template entry.
	ErrUnknownMilestone = errors.New("unknown milestone for component")
	// ErrValueOutOfRange indicates a write value outside [0,100], or a
	// non-full-step value for a discrete milestone.
	ErrValueOutOfRange = errors.New("milestone value out of range")
	// ErrRollbackConfirmationRequired indicates a decreasing write was
	// attempted without rollback confirmation.
	ErrRollbackConfirmationRequired = errors.New("rollback confirmation required")
	// ErrUnknownReason indicates a rollback reason outside the fixed
	// enumeration.
	ErrUnknownReason = errors.New("unknown rollback reason")
	// ErrDetailsRequired indicates the "other" reason was chosen without
	// sufficient free-text details.
	ErrDetailsRequired = errors.New("rollback details required")
	// ErrConflict indicates the component was modified concurrently.
	ErrConflict = errors.New("component modified concurrently")
	// ErrOffline indicates an operation that needs the network was
	// attempted while offline.
	ErrOffline = errors.New("network unavailable")
	// ErrInvalidInput indicates invalid input for component operations.
	ErrInvalidInput = errors.New("invalid component input")
)

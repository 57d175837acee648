// api/schemas/errors.go
package schemas

import "errors"

// Failure classes for field automation. Everything except
// ErrFatalNavigation is absorbed at the field or strategy level; partial
// success is preferred over all-or-nothing correctness.
var (
	// ErrNotFound means a selector or strategy found nothing to act on.
	// Non-fatal; the caller tries the next candidate.
	ErrNotFound = errors.New("element not found")

	// ErrInvalidInput means the supplied value cannot be applied at all
	// (non-numeric range value, upload file missing on disk). The field
	// is logged and skipped.
	ErrInvalidInput = errors.New("invalid input for field")

	// ErrVerifyMismatch means an action ran but the read-back disagreed
	// with the intended value. The executor escalates to its next
	// strategy.
	ErrVerifyMismatch = errors.New("verification mismatch")

	// ErrValidationFailed means the target rejected the submission and
	// the orchestrator should enter the recovery cycle.
	ErrValidationFailed = errors.New("form validation failed")

	// ErrFatalNavigation means the page never became usable. This is the
	// only class that propagates out of a run.
	ErrFatalNavigation = errors.New("page navigation failed")
)

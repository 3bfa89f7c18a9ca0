package registration

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("registration not found")
	ErrNotOwner        = errors.New("registration not owned by caller")
	ErrNotDraft        = errors.New("registration is no longer editable")
	ErrInvalidStep     = errors.New("invalid step number")
	ErrPaymentRequired = errors.New("registration fee not paid")
	ErrTermsNotAgreed  = errors.New("terms must be accepted")
)

// IncompleteStepsError reports which required steps are still missing at
// submission time.
type IncompleteStepsError struct {
	Missing []int
}

func (e IncompleteStepsError) Error() string {
	return fmt.Sprintf("required steps not completed: %v", e.Missing)
}

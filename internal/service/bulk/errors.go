package bulk

import "errors"

var (
	ErrNotFound             = errors.New("bulk registration not found")
	ErrNotOwner             = errors.New("bulk registration not owned by caller")
	ErrNotActive            = errors.New("bulk registration is not active")
	ErrNoSlotsAvailable     = errors.New("no slots available")
	ErrDuplicateParticipant = errors.New("participant email already invited")
	ErrInvalidCode          = errors.New("invalid or expired verification code")
	ErrInvalidSlots         = errors.New("total slots must be positive")
	ErrUnknownParticipant   = errors.New("email is not an invited participant")
	ErrEmailTaken           = errors.New("email already belongs to an account")
)

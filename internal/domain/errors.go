package domain

import "errors"

var (
	ErrBulkNotActive    = errors.New("bulk registration is not active")
	ErrNoSlotsAvailable = errors.New("no slots available")
)

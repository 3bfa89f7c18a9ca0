package payment

import "errors"

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidKind      = errors.New("unknown payment kind")
	ErrEntityNotFound   = errors.New("target entity not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrVerifyInFlight   = errors.New("verification already in progress")
	ErrNotRefundable    = errors.New("only completed transactions can be refunded")
)

package ticket

import "errors"

var (
	ErrNotFound        = errors.New("ticket not found")
	ErrPurchaseMissing = errors.New("purchase not found")
	ErrInactive        = errors.New("ticket is not on sale")
	ErrSoldOut         = errors.New("not enough tickets available")
	ErrEmptyPurchase   = errors.New("purchase has no items")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

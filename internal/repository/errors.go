package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrNotOwner = errors.New("not owned by user")
	ErrSoldOut  = errors.New("tickets sold out")
)

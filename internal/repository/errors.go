package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrForeignKey signals a write that references a missing parent row.
	ErrForeignKey = errors.New("referenced record does not exist")

	ErrDuplicate = errors.New("record already exists")
)

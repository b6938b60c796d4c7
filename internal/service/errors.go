package service

import (
	"fmt"
	"sort"
	"strings"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// FieldErrors maps a field name to the validation messages reported for it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

type BusinessError struct {
	Code    string
	Message string
	Fields  FieldErrors
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

func NewValidationError(fields FieldErrors) *BusinessError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return &BusinessError{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("invalid value for field(s): %s", strings.Join(names, ", ")),
		Fields:  fields,
	}
}

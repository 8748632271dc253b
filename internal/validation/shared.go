package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ndewijer/papertrade/internal/apperrors"
)

// Error collects field-specific validation messages.
// It matches apperrors.ErrValidation with errors.Is.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is(err, apperrors.ErrValidation) match.
func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

func result(errs map[string]string) error {
	if len(errs) > 0 {
		return &Error{Fields: errs}
	}
	return nil
}

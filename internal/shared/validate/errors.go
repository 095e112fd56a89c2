// Package validate holds field and record validators shared by the domain
// packages. Every failure is a *Error so handlers can render it uniformly.
package validate

import (
	"errors"
	"sort"
	"strings"
)

// Error is a validation failure. Fields maps a field name to its message
// when the failure belongs to specific inputs.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// New returns a failure that is not tied to a field.
func New(message string) *Error {
	return &Error{Message: message}
}

// Field returns a failure for a single field. The message doubles as the
// top-level message.
func Field(field, message string) *Error {
	return &Error{Message: message, Fields: map[string]string{field: message}}
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

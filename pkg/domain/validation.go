package domain

import (
	"fmt"
	"strings"
)

// FieldError is a validation message attributable to a single named input
// field. The JSON tags match the wire contract consumed by the client form:
// {"errors":[{"param":"nickname","msg":"..."}]}.
type FieldError struct {
	Field   string `json:"param"`
	Message string `json:"msg"`
}

// ValidationErrors is an ordered list of field errors. At most one message is
// kept per field; the first error recorded for a field wins.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for a field unless the field already has one.
func (e *ValidationErrors) Add(field, message string) {
	for _, fe := range *e {
		if fe.Field == field {
			return
		}
	}
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Get returns the message for a field, or the empty string.
func (e ValidationErrors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

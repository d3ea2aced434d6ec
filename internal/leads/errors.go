package leads

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrTransport matches any failure to get a usable answer from the CRM.
	ErrTransport = errors.New("crm transport failure")

	// ErrExternalUnavailable wraps failures of the public submission path.
	ErrExternalUnavailable = errors.New("el sistema no está completamente configurado")

	ErrInvalidLeadID  = errors.New("invalid lead id")
	ErrUnknownVariant = errors.New("unknown submission variant")
)

// ValidationErrors maps a wire field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransportError is a network failure or an answer the gateway could not use.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("crm %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("crm %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

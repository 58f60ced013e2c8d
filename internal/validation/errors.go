package validation

import (
	"errors"
	"sort"
	"strings"
)

// Errors collects field-level validation failures keyed by JSON field name.
type Errors map[string]string

// Add records msg for field, keeping the first message reported for it.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Required records a "is required" failure when value is blank.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, field+" is required")
	}
}

// Err returns e as an error, or nil when no failures were recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns a single-field validation error.
func Field(field, msg string) error {
	return Errors{field: msg}
}

// As extracts validation errors from err, if any.
func As(err error) (Errors, bool) {
	var verr Errors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

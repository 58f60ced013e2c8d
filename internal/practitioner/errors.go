package practitioner

import "errors"

var (
	ErrNotFound        = errors.New("practitioner not found")
	ErrStillReferenced = errors.New("cannot delete: still referenced")
)

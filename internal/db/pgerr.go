package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// PostgreSQL error codes the repositories react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// UniqueViolation reports the column behind a unique-constraint failure,
// e.g. "national_id" for patients_national_id_key.
func UniqueViolation(err error) (string, bool) {
	return violation(err, codeUniqueViolation, "_key")
}

// ForeignKeyViolation reports the referencing column behind a foreign-key failure,
// e.g. "practitioner_id" for appointments_practitioner_id_fkey.
func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, codeForeignKeyViolation, "_fkey")
}

func violation(err error, code, suffix string) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return "", false
	}
	field := strings.TrimSuffix(pqErr.Constraint, suffix)
	if pqErr.Table != "" {
		field = strings.TrimPrefix(field, pqErr.Table+"_")
	}
	return field, true
}

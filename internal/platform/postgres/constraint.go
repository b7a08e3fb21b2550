package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// UniqueViolation reports whether err is a unique constraint violation and which constraint fired.
func UniqueViolation(err error) (string, bool) {
	return violation(err, codeUniqueViolation)
}

// ForeignKeyViolation reports whether err is a foreign key violation and which constraint fired.
func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, codeForeignKeyViolation)
}

func violation(err error, code pq.ErrorCode) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != code {
		return "", false
	}
	return pqErr.Constraint, true
}

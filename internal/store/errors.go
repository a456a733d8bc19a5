package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error kinds. Every error the store returns on purpose wraps one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("invalid input")
)

// Error carries a caller-facing message and the kind it belongs to.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrOrganizationNotFound = newError(ErrNotFound, "organization not found")
	ErrPatientNotFound      = newError(ErrNotFound, "patient not found")
	ErrCaseNotFound         = newError(ErrNotFound, "case not found")
	ErrVisitNotFound        = newError(ErrNotFound, "visit not found")
	ErrInvoiceNotFound      = newError(ErrNotFound, "invoice not found")

	ErrUsernameTaken        = newError(ErrConflict, "username already registered")
	ErrEmailTaken           = newError(ErrConflict, "email already registered")
	ErrPatientEmailTaken    = newError(ErrConflict, "a patient with this email already exists")
	ErrOrganizationCodeUsed = newError(ErrConflict, "organization code already exists")
	ErrPatientHasDependents = newError(ErrConflict, "patient has cases, visits or invoices and cannot be deleted")

	ErrInvalidAmount = newError(ErrValidation, "payment amount must be greater than zero")
)

// isUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

// violatedColumn reports whether a unique violation was raised for column.
// Postgres names the constraint <table>_<column>_key by default; sqlite
// names <table>.<column> in the message.
func violatedColumn(err error, table, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint == table+"_"+column+"_key" ||
			strings.Contains(pqErr.Detail, "("+column+")")
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strings.Contains(liteErr.Error(), table+"."+column)
	}
	return false
}

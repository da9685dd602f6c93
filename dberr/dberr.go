// Package dberr maps Postgres driver errors onto the small set of codes the
// GraphQL layer exposes to clients.
package dberr

import (
	stderrs "errors"
	"strings"

	"github.com/Station-Manager/gqlkit/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	CodeUniqueViolation = "UNIQUE_CONSTRAINT_VIOLATION"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeDatabase        = "DATABASE_ERROR"
)

const (
	msgUniqueViolation = "A record with this value already exists"
	msgNotFound        = "Record not found"
	msgValidation      = "Invalid data provided"
	msgDatabase        = "An unexpected database error occurred"
)

// Postgres SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	sqlStateUniqueViolation  = "23505"
	sqlStateNotNullViolation = "23502"
	sqlStateCheckViolation   = "23514"
	sqlStateClassDataError   = "22"
)

// NormalizedError is the client-safe form of a database error. Message never
// carries driver text; the original error is kept for errors.Is/As.
type NormalizedError struct {
	Code    string
	Message string
	Fields  []string
	cause   error
}

func (e *NormalizedError) Error() string {
	return e.Message
}

func (e *NormalizedError) Unwrap() error {
	return e.cause
}

// ErrorCode exposes Code to the logger and the GraphQL error formatter.
func (e *NormalizedError) ErrorCode() string {
	return e.Code
}

// ErrorMeta exposes the offending columns, if any.
func (e *NormalizedError) ErrorMeta() any {
	if len(e.Fields) == 0 {
		return nil
	}
	return map[string]any{"fields": e.Fields}
}

// Handle classifies err and logs it at error level. It returns nil for a nil err.
func Handle(err error, log logging.Interface) *NormalizedError {
	if err == nil {
		return nil
	}

	var normalized *NormalizedError
	if stderrs.As(err, &normalized) {
		return normalized
	}

	if stderrs.Is(err, pgx.ErrNoRows) {
		logError(log, logging.Fields{"code": CodeNotFound}, "[dberr.Handle] Known database error: "+err.Error())
		return &NormalizedError{Code: CodeNotFound, Message: msgNotFound, cause: err}
	}

	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		logError(log, logging.Fields{"code": pgErr.Code, "meta": pgMeta(pgErr)},
			"[dberr.Handle] Known database error: "+pgErr.Message)

		switch {
		case pgErr.Code == sqlStateUniqueViolation:
			return &NormalizedError{
				Code:    CodeUniqueViolation,
				Message: msgUniqueViolation,
				Fields:  uniqueColumns(pgErr),
				cause:   err,
			}
		case pgErr.Code == sqlStateNotNullViolation,
			pgErr.Code == sqlStateCheckViolation,
			strings.HasPrefix(pgErr.Code, sqlStateClassDataError):
			return &NormalizedError{Code: CodeValidation, Message: msgValidation, cause: err}
		}
	}

	logError(log, logging.Fields{"errorMessage": err.Error()}, "[dberr.Handle] Unknown database error")
	return &NormalizedError{Code: CodeDatabase, Message: msgDatabase, cause: err}
}

func logError(log logging.Interface, fields logging.Fields, msg string) {
	if log == nil {
		return
	}
	log.ErrorFields(fields, msg)
}

func pgMeta(e *pgconn.PgError) map[string]any {
	meta := map[string]any{}
	if e.TableName != "" {
		meta["table"] = e.TableName
	}
	if e.ColumnName != "" {
		meta["column"] = e.ColumnName
	}
	if e.ConstraintName != "" {
		meta["constraint"] = e.ConstraintName
	}
	if e.Detail != "" {
		meta["detail"] = e.Detail
	}
	return meta
}

// uniqueColumns extracts the column list from a unique_violation detail such
// as `Key (email, tenant_id)=(a@b.c, 1) already exists.`, falling back to the
// column or constraint name.
func uniqueColumns(e *pgconn.PgError) []string {
	if cols := parseKeyColumns(e.Detail); len(cols) > 0 {
		return cols
	}
	if e.ColumnName != "" {
		return []string{e.ColumnName}
	}
	if e.ConstraintName != "" {
		return []string{e.ConstraintName}
	}
	return []string{}
}

func parseKeyColumns(detail string) []string {
	rest, ok := strings.CutPrefix(detail, "Key (")
	if !ok {
		return nil
	}
	list, _, ok := strings.Cut(rest, ")=")
	if !ok {
		return nil
	}

	var cols []string
	for _, col := range strings.Split(list, ",") {
		col = strings.Trim(strings.TrimSpace(col), `"`)
		if col != "" {
			cols = append(cols, col)
		}
	}
	return cols
}

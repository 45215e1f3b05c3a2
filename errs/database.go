package errs

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Storage failure causes, attached as Cause-side sentinels so callers can tell them apart.
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrDatabaseConnection        = errors.New("database connection failed")
	ErrDatabaseQuery             = errors.New("database query failed")
)

// NewDatabaseError maps a storage error from operation on entity onto the failure taxonomy.
// An error that is already an ApiErr is returned as is.
func NewDatabaseError(operation, entity string, cause error) error {
	if cause == nil {
		return nil
	}
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("failed to %s %s", operation, entity)

	switch {
	case errors.Is(cause, gorm.ErrRecordNotFound):
		e := NotFound(entity)
		e.Cause = cause
		return e
	case isUniqueViolation(cause):
		e := Conflict(fmt.Sprintf("%s already exists", entity))
		e.Details = details
		e.Cause = fmt.Errorf("%w: %w", ErrUniqueConstraintViolation, cause)
		return e
	case isForeignKeyViolation(cause):
		e := Conflict(fmt.Sprintf("invalid reference in %s", entity))
		e.Details = "the referenced record does not exist or is still in use"
		e.Cause = fmt.Errorf("%w: %w", ErrForeignKeyConstraint, cause)
		return e
	case isConnectionError(cause):
		e := ServiceUnavailable("")
		e.Details = "unable to reach the database"
		e.Cause = fmt.Errorf("%w: %w", ErrDatabaseConnection, cause)
		return e
	}

	e := Internal("")
	e.Details = details
	e.Cause = fmt.Errorf("%w: %w", ErrDatabaseQuery, cause)
	return e
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	msg := err.Error()
	return strings.Contains(msg, "foreign key constraint") || strings.Contains(msg, "FOREIGN KEY constraint failed")
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception
		return strings.HasPrefix(pgErr.Code, "08")
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "unable to open database")
}

func IsUniqueConstraintViolationError(err error) bool {
	return causeIs(err, ErrUniqueConstraintViolation)
}

func IsForeignKeyConstraintError(err error) bool {
	return causeIs(err, ErrForeignKeyConstraint)
}

func IsDatabaseConnectionError(err error) bool {
	return causeIs(err, ErrDatabaseConnection)
}

// causeIs looks through the Cause of an ApiErr as well as err itself.
func causeIs(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	var apiErr *ApiErr
	return errors.As(err, &apiErr) && apiErr.Cause != nil && errors.Is(apiErr.Cause, target)
}

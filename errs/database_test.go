package errs

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestNewDatabaseErrorClassifies(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		check  func(error) bool
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, IsNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, IsUniqueConstraintViolationError},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict, IsUniqueConstraintViolationError},
		{"sqlite unique", errors.New("UNIQUE constraint failed: games.name"), http.StatusConflict, IsConflict},
		{"translated foreign key", gorm.ErrForeignKeyViolated, http.StatusConflict, IsForeignKeyConstraintError},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, http.StatusConflict, IsForeignKeyConstraintError},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusConflict, IsForeignKeyConstraintError},
		{"postgres connection", &pgconn.PgError{Code: "08006"}, http.StatusServiceUnavailable, IsServiceUnavailable},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), http.StatusServiceUnavailable, IsDatabaseConnectionError},
		{"refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), http.StatusServiceUnavailable, IsServiceUnavailable},
		{"anything else", errors.New("syntax error at or near"), http.StatusInternalServerError, IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("insert", "game", tt.cause)
			var apiErr *ApiErr
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected an ApiErr, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if !tt.check(err) {
				t.Fatalf("checker rejected %v", err)
			}
			if !errors.Is(apiErr.Cause, tt.cause) {
				t.Fatalf("cause %v lost, got %v", tt.cause, apiErr.Cause)
			}
		})
	}
}

func TestNewDatabaseErrorPassesThrough(t *testing.T) {
	if NewDatabaseError("select", "game", nil) != nil {
		t.Fatalf("nil cause must stay nil")
	}

	original := NotFound("game")
	wrapped := fmt.Errorf("loading: %w", original)
	got := NewDatabaseError("select", "platform", wrapped)
	if got != original {
		t.Fatalf("classified error was re-wrapped: %v", got)
	}
	again := NewDatabaseError("commit", "transaction", got)
	if again != original {
		t.Fatalf("second pass re-wrapped: %v", again)
	}
}

func TestApiErrRendering(t *testing.T) {
	e := NotFound("game")
	if e.Title() != "Page Not Found" {
		t.Fatalf("unexpected title %q", e.Title())
	}
	if e.UserMessage() != "game not found" {
		t.Fatalf("unexpected message %q", e.UserMessage())
	}
	if msg := Internal("").UserMessage(); msg != generic[http.StatusInternalServerError] {
		t.Fatalf("expected the generic message, got %q", msg)
	}
	if Classify(errors.New("boom")).StatusCode != http.StatusInternalServerError {
		t.Fatalf("unclassified errors must be internal")
	}
	if Classify(AdminOnly) != AdminOnly {
		t.Fatalf("Classify must pass classified errors through")
	}
	if !IsForbidden(AdminOnly) || IsNotFound(AdminOnly) {
		t.Fatalf("checkers disagree with the kind")
	}
}

package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrConflict is a unique or primary key violation.
	ErrConflict = errors.New("db: conflict")
	// ErrInvalidReference is a foreign key violation.
	ErrInvalidReference = errors.New("db: invalid reference")
)

// Classify tags constraint violations from either driver with ErrConflict
// or ErrInvalidReference. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return errors.Join(ErrConflict, err)
		case "23503": // foreign_key_violation
			return errors.Join(ErrInvalidReference, err)
		}
		return err
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.Join(ErrInvalidReference, err)
		}
	}

	// Drivers without extended result codes only carry the message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return errors.Join(ErrConflict, err)
	case strings.Contains(msg, "foreign key constraint failed"):
		return errors.Join(ErrInvalidReference, err)
	}
	return err
}

package resource

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict means a uniqueness or concurrency constraint was violated.
	ErrConflict = errors.New("resource conflict")
	// ErrNoFields means an update carried nothing to change.
	ErrNoFields = errors.New("no fields to update")
)

// MapError translates driver errors into the package sentinels. Unique
// violations become ErrConflict so the database backstops the
// check-then-insert pattern under concurrent writers.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

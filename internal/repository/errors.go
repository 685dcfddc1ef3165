package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"starwars-api/internal/database"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned when a write points at a row that does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")
)

// translate maps driver errors onto the repository error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case database.IsDuplicate(err):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", ErrMissingReference, err)
	default:
		return err
	}
}

package store

import (
	"errors"

	"modernc.org/sqlite"
)

var (
	// ErrInvalidInput marks names or categories that are empty after
	// trimming, and malformed share codes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateCategory marks a case-insensitive category name
	// collision within one list.
	ErrDuplicateCategory = errors.New("category already exists")

	// ErrDefaultCategory marks an attempt to delete a default category.
	ErrDefaultCategory = errors.New("default categories cannot be deleted")

	// ErrCodeExhausted is returned when list creation cannot find an
	// unused share code within the retry bound.
	ErrCodeExhausted = errors.New("could not allocate a unique share code")
)

const sqliteConstraint = 19 // SQLITE_CONSTRAINT primary result code

// isUniqueViolation reports whether err is a SQLite uniqueness constraint
// failure. Extended result codes embed the primary code in the low byte.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqliteConstraint
}

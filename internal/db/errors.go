package db

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrAlreadyInitialized is returned by Initialize on an open session.
	ErrAlreadyInitialized = errors.New("db: session already initialized")
	// ErrNotInitialized is returned by every operation on a session that is
	// not open.
	ErrNotInitialized = errors.New("db: session not initialized")
	// ErrNotFound is returned when a write targets a row that does not exist.
	// Reads report absence through their return values instead.
	ErrNotFound = errors.New("db: not found")
)

// OpenError reports that the database file could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open database %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// CompileError reports a statement SQLite could not compile: bad syntax, an
// unknown table or column, or a table that already exists.
type CompileError struct {
	Statement string
	Err       error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile statement %q: %v", abbreviate(e.Statement), e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// ExecutionError reports a statement that compiled but failed while running,
// such as a constraint violation.
type ExecutionError struct {
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute statement %q: %v", abbreviate(e.Statement), e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// IsConstraintViolation reports whether err came from a UNIQUE, NOT NULL,
// CHECK or foreign key constraint.
func IsConstraintViolation(err error) bool {
	return primaryCode(err) == sqlite3.SQLITE_CONSTRAINT
}

// classify wraps a driver error as a CompileError or ExecutionError.
// SQLite reports compile failures with the generic SQLITE_ERROR code; every
// other code comes from running the statement.
func classify(statement string, err error) error {
	if primaryCode(err) == sqlite3.SQLITE_ERROR {
		return &CompileError{Statement: statement, Err: err}
	}
	return &ExecutionError{Statement: statement, Err: err}
}

// primaryCode returns the primary SQLite result code carried by err, or -1.
func primaryCode(err error) int {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return -1
	}
	return se.Code() & 0xff
}

func abbreviate(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Package db owns the connection to the rollbook SQLite file. A Session
// opens the file, creates the schema the first time it is needed, tracks the
// schema version in PRAGMA user_version and runs statements for the
// repositories.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the schema version this build requires.
const SchemaVersion = 1

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// RowMapper translates one result row into a T.
type RowMapper[T any] func(Scanner) (T, error)

// Session holds at most one open connection to a database file.
// The zero value is not usable; call New.
type Session struct {
	mu      sync.Mutex
	conn    *sql.DB
	path    string
	version int
	log     zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for failed statements and schema changes.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New returns an uninitialized session.
func New(opts ...Option) *Session {
	s := &Session{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "db").Logger()
	return s
}

// Initialize opens (or creates) the database at path and brings its schema
// up to requiredVersion.
//
// When the stored version is below requiredVersion every schema statement
// for the missing versions runs. A failing statement does not stop the ones
// after it and nothing is rolled back; the stored version is only advanced
// when all of them succeed. The session stays open either way.
func (s *Session) Initialize(ctx context.Context, path string, requiredVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return ErrAlreadyInitialized
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}

	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return &OpenError{Path: path, Err: err}
	}

	s.conn = conn
	s.path = path
	s.version = s.readVersion(ctx)

	log := s.log.With().Str("path", path).Int("stored_version", s.version).Int("required_version", requiredVersion).Logger()
	if s.version >= requiredVersion {
		log.Debug().Msg("schema up to date")
		return nil
	}

	if err := s.createSchema(ctx, s.version, requiredVersion); err != nil {
		log.Error().Err(err).Msg("schema creation incomplete")
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := s.exec(ctx, fmt.Sprintf("PRAGMA user_version = %d", requiredVersion)); err != nil {
		return fmt.Errorf("store schema version %d: %w", requiredVersion, err)
	}
	s.version = requiredVersion
	log.Info().Msg("schema created")

	return nil
}

// Terminate closes the connection and returns the session to the
// uninitialized state. CurrentVersion keeps its last value.
func (s *Session) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotInitialized
	}

	err := s.conn.Close()
	s.conn = nil
	s.path = ""
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CurrentVersion returns the schema version last read or written by
// Initialize, or 0 if the session was never initialized.
func (s *Session) CurrentVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// IsOpen reports whether the session holds an open connection.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Path returns the path of the open database, or "" when not open.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Exec runs a statement that returns no rows.
func (s *Session) Exec(ctx context.Context, statement string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrNotInitialized
	}
	return s.exec(ctx, statement, args...)
}

// QueryOne runs statement and maps its first row, if any. ok is false, and
// mapper is not called, when the statement returns no rows.
func QueryOne[T any](ctx context.Context, s *Session, statement string, mapper RowMapper[T], args ...any) (v T, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return v, false, ErrNotInitialized
	}

	rows, err := s.conn.QueryContext(ctx, statement, args...)
	if err != nil {
		return v, false, s.fail(statement, err)
	}
	defer rows.Close() //nolint:errcheck

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return v, false, s.fail(statement, err)
		}
		return v, false, nil
	}

	v, err = mapper(rows)
	if err != nil {
		return v, false, fmt.Errorf("map row: %w", err)
	}
	return v, true, nil
}

// QueryAll runs statement and maps every row. The result is empty, not nil,
// when no rows match.
func QueryAll[T any](ctx context.Context, s *Session, statement string, mapper RowMapper[T], args ...any) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.conn.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, s.fail(statement, err)
	}
	defer rows.Close() //nolint:errcheck

	out := []T{}
	for rows.Next() {
		v, err := mapper(rows)
		if err != nil {
			return nil, fmt.Errorf("map row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(statement, err)
	}
	return out, nil
}

// Tables lists the user tables of the open database by name.
func (s *Session) Tables(ctx context.Context) ([]string, error) {
	return QueryAll(ctx, s,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
		func(row Scanner) (string, error) {
			var name string
			err := row.Scan(&name)
			return name, err
		},
	)
}

// exec runs one statement; the caller holds s.mu.
func (s *Session) exec(ctx context.Context, statement string, args ...any) (sql.Result, error) {
	res, err := s.conn.ExecContext(ctx, statement, args...)
	if err != nil {
		return nil, s.fail(statement, err)
	}
	return res, nil
}

func (s *Session) fail(statement string, err error) error {
	err = classify(statement, err)
	s.log.Error().Err(err).Msg("statement failed")
	return err
}

// readVersion returns PRAGMA user_version, or 0 if it cannot be read.
func (s *Session) readVersion(ctx context.Context) int {
	var version int
	if err := s.conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		s.log.Warn().Err(err).Msg("read schema version, assuming 0")
		return 0
	}
	return version
}

func (s *Session) createSchema(ctx context.Context, from, to int) error {
	files, err := schemaFiles(from, to)
	if err != nil {
		return err
	}

	var errs error
	for _, f := range files {
		if _, err := s.exec(ctx, f.sql); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", f.name, err))
			continue
		}
		s.log.Debug().Str("file", f.name).Msg("applied schema file")
	}
	return errs
}

// Package repository implements the CRUD contract for rollbook's entities
// on top of a db.Session.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rollbook/rollbook/internal/db"
)

// Repository is the capability set every entity repository provides.
// Reads report a missing row as a nil result, never as an error. Removing a
// row that does not exist is not an error.
type Repository[T any, K comparable] interface {
	// QueryAll runs statement and returns every row, or an empty slice.
	QueryAll(ctx context.Context, statement string, args ...any) ([]T, error)
	// Query runs statement and returns its first row, or nil.
	Query(ctx context.Context, statement string, args ...any) (*T, error)
	// FindByID returns the entity with the given primary key, or nil.
	FindByID(ctx context.Context, id K) (*T, error)
	// Save inserts an entity with a zero ID and assigns its new ID, or
	// updates the row of an entity that already has one.
	Save(ctx context.Context, entity *T) error
	// Remove deletes the row of entity's ID.
	Remove(ctx context.Context, entity *T) error
	// RemoveByID deletes the row with the given primary key.
	RemoveByID(ctx context.Context, id K) error
}

// Record is implemented by the model types.
type Record interface {
	Validate() error
}

var errNilEntity = errors.New("repository: nil entity")

// table describes how an entity maps onto its table.
type table[T Record] struct {
	name     string
	idColumn string
	columns  []string // excluding idColumn, in bind order
	scan     db.RowMapper[T]
	values   func(*T) []any
	id       func(*T) int64
	setID    func(*T, int64)
}

// sqlRepository implements Repository[T, int64] for one table.
type sqlRepository[T Record] struct {
	session *db.Session
	table   table[T]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

func newSQLRepository[T Record](session *db.Session, t table[T]) *sqlRepository[T] {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}

	return &sqlRepository[T]{
		session:   session,
		table:     t,
		selectSQL: fmt.Sprintf("SELECT %s, %s FROM %s", t.idColumn, strings.Join(t.columns, ", "), t.name),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), placeholders),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t.name, strings.Join(sets, ", "), t.idColumn),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.name, t.idColumn),
	}
}

func (r *sqlRepository[T]) QueryAll(ctx context.Context, statement string, args ...any) ([]T, error) {
	rows, err := db.QueryAll(ctx, r.session, statement, r.table.scan, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table.name, err)
	}
	return rows, nil
}

func (r *sqlRepository[T]) Query(ctx context.Context, statement string, args ...any) (*T, error) {
	v, ok, err := db.QueryOne(ctx, r.session, statement, r.table.scan, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table.name, err)
	}
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *sqlRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.Query(ctx, r.selectSQL+" WHERE "+r.table.idColumn+" = ?", id)
}

// List returns every row ordered by primary key.
func (r *sqlRepository[T]) List(ctx context.Context) ([]T, error) {
	return r.QueryAll(ctx, r.selectSQL+" ORDER BY "+r.table.idColumn)
}

func (r *sqlRepository[T]) Save(ctx context.Context, entity *T) error {
	if entity == nil {
		return errNilEntity
	}
	if err := (*entity).Validate(); err != nil {
		return err
	}

	id := r.table.id(entity)
	if id == 0 {
		res, err := r.session.Exec(ctx, r.insertSQL, r.table.values(entity)...)
		if err != nil {
			return fmt.Errorf("insert %s: %w", r.table.name, err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert %s: last insert id: %w", r.table.name, err)
		}
		r.table.setID(entity, newID)
		return nil
	}

	res, err := r.session.Exec(ctx, r.updateSQL, append(r.table.values(entity), id)...)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", r.table.name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s %d: rows affected: %w", r.table.name, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s %d: %w", r.table.name, id, db.ErrNotFound)
	}
	return nil
}

func (r *sqlRepository[T]) Remove(ctx context.Context, entity *T) error {
	if entity == nil {
		return errNilEntity
	}
	return r.RemoveByID(ctx, r.table.id(entity))
}

func (r *sqlRepository[T]) RemoveByID(ctx context.Context, id int64) error {
	if _, err := r.session.Exec(ctx, r.deleteSQL, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", r.table.name, id, err)
	}
	return nil
}

// nullIfEmpty binds "" as NULL so NOT NULL columns reject it.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package resource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"coursehub/internal/db"
)

// Engine runs the guard and cascade operations against the store.
type Engine struct {
	store *db.Store
}

func NewEngine(store *db.Store) *Engine {
	return &Engine{store: store}
}

// EnsureExists returns ErrNotFound unless a row with the given key exists.
// The descriptor's base filter applies, so filtered-out rows look absent.
func (e *Engine) EnsureExists(ctx context.Context, d Descriptor, key any) error {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1", d.Table, d.KeyColumn)
	if d.BaseFilter != "" {
		query += " AND " + d.BaseFilter
	}
	query += ")"

	var exists bool
	if err := e.store.Pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// EnsureUnique returns ErrConflict when any row already holds value in column.
func (e *Engine) EnsureUnique(ctx context.Context, table, column string, value any) error {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", table, column)
	var exists bool
	if err := e.store.Pool.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}
	return nil
}

// EnsureUniqueExcept is EnsureUnique ignoring the row identified by key,
// for updates that keep their own value.
func (e *Engine) EnsureUniqueExcept(ctx context.Context, table, column string, value any, keyColumn string, key any) error {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)", table, column, keyColumn)
	var exists bool
	if err := e.store.Pool.QueryRow(ctx, query, value, key).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}
	return nil
}

// DeleteCascade removes the row and its dependent children in one
// transaction. If the parent delete affects no rows after the existence
// check passed, a concurrent delete won; that surfaces as ErrConflict.
func (e *Engine) DeleteCascade(ctx context.Context, d Descriptor, key any) error {
	if err := e.EnsureExists(ctx, d, key); err != nil {
		return err
	}
	return e.store.WithTx(ctx, func(tx pgx.Tx) error {
		for _, child := range d.Children {
			query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", child.Table, child.ForeignKey)
			if _, err := tx.Exec(ctx, query, key); err != nil {
				return err
			}
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", d.Table, d.KeyColumn)
		if d.BaseFilter != "" {
			query += " AND " + d.BaseFilter
		}
		tag, err := tx.Exec(ctx, query, key)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrConflict
		}
		return nil
	})
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ravitejak99/storefront-go/internal/orders"
)

// querier is satisfied by both *sql.DB and *sql.Tx so repositories can
// run standalone or inside a unit of work.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements orders.UnitOfWork on top of a single Postgres
// database: every engine operation runs inside one sql.Tx, so a stock
// reservation and the order write it belongs to commit or roll back
// together.
type Store struct {
	db *sql.DB
}

func NewStore(database *PostgresDB) *Store {
	return &Store{db: database.Conn}
}

// Do runs fn inside a transaction. fn's error is returned as-is so the
// engine's business errors survive; commit and rollback failures are
// reported as internal errors instead, since losing a rollback would
// corrupt stock counts silently.
func (s *Store) Do(ctx context.Context, fn func(tx orders.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&storeTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to roll back transaction after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Inventory() orders.InventoryStore {
	return &InventoryRepository{q: t.tx}
}

func (t *storeTx) Orders() orders.OrderStore {
	return &OrderRepository{q: t.tx}
}

func (t *storeTx) Users() orders.UserStore {
	return &UserRepository{q: t.tx}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store is the access layer over the relational schema. Every mutating
// operation runs in its own transaction, so a failed parent check persists
// nothing.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New constructs a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock returns a copy of the store that reads time from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, now: now}
}

func (s *Store) utcNow() time.Time {
	return s.now().UTC()
}

// q rebinds ? placeholders for the active driver.
func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// exists checks for a row by id. table is always a constant from this package.
func (s *Store) exists(ctx context.Context, q sqlx.QueryerContext, table string, id int64) (bool, error) {
	var one int
	err := sqlx.GetContext(ctx, q, &one, s.q(`SELECT 1 FROM `+table+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s %d: %w", table, id, err)
	}
	return true, nil
}

// require returns missing when the row does not exist.
func (s *Store) require(ctx context.Context, q sqlx.QueryerContext, table string, id int64, missing error) error {
	ok, err := s.exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return missing
	}
	return nil
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, s.q(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}

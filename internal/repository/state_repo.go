package repository

import (
	"context"
	"database/sql"
	"errors"

	"civicstrainer/internal/database"
)

// ErrStateNotFound is returned when nothing has been persisted under the key yet
var ErrStateNotFound = errors.New("persisted state not found")

// StateStore persists the trainer's snapshot blob under a single key
type StateStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Clear(ctx context.Context) error
	Close() error
}

// SQLStateStore keeps the snapshot in the app_state table
type SQLStateStore struct {
	db  *database.DB
	key string
}

// NewSQLStateStore creates a store for key backed by db
func NewSQLStateStore(db *database.DB, key string) *SQLStateStore {
	return &SQLStateStore{db: db, key: key}
}

// Load retrieves the snapshot payload
func (r *SQLStateStore) Load(ctx context.Context) ([]byte, error) {
	var payload string
	query := r.db.Dialect.RewriteQuery(`SELECT payload FROM app_state WHERE state_key = ?`)
	err := r.db.QueryRowContext(ctx, query, r.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// Save inserts or replaces the snapshot payload
func (r *SQLStateStore) Save(ctx context.Context, payload []byte) error {
	query := r.db.Dialect.RewriteQuery(r.db.Dialect.UpsertStateQuery())
	_, err := r.db.ExecContext(ctx, query, r.key, string(payload))
	return err
}

// Clear removes the snapshot
func (r *SQLStateStore) Clear(ctx context.Context) error {
	query := r.db.Dialect.RewriteQuery(`DELETE FROM app_state WHERE state_key = ?`)
	_, err := r.db.ExecContext(ctx, query, r.key)
	return err
}

// Replace clears and writes the snapshot in one transaction
func (r *SQLStateStore) Replace(payload []byte) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM app_state WHERE state_key = ?`, r.key); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(r.db.Dialect.UpsertStateQuery(), r.key, string(payload)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database
func (r *SQLStateStore) Close() error {
	return r.db.Close()
}

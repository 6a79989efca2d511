// Package kvstore is the durable string-key to JSON-value mapping that the
// board persists into. It knows nothing about roles or tasks; key families
// are the repository layer's business.
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/loadboard/internal/db"
)

// Entry is one stored key and its raw JSON value.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store is the key-value contract used by the repositories.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([]Entry, error)
	Clear(ctx context.Context) error
}

// SQLStore implements Store on the kv table.
type SQLStore struct {
	db db.DBTX
}

// New creates a SQLStore over conn. conn must already be bound for its
// dialect (see db.Bind).
func New(conn db.DBTX) *SQLStore {
	return &SQLStore{db: conn}
}

func (s *SQLStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return json.RawMessage(raw), true, nil
}

// Put upserts value under key, replacing whatever was there.
func (s *SQLStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("writing key %q: value is not valid JSON", key)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Scan returns every entry whose key starts with prefix, ordered by key.
func (s *SQLStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", prefix, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scanning %q row: %w", prefix, err)
		}
		entries = append(entries, Entry{Key: key, Value: json.RawMessage(raw)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %q: %w", prefix, err)
	}
	return entries, nil
}

// Clear removes every key in the store, including foreign ones.
func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	return nil
}

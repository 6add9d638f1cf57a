package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyStore = (*KeyRepo)(nil)

// KeyRepo is the SQLite implementation of the KeyStore port interface.
type KeyRepo struct {
	db *DB
}

// NewKeyRepo creates a new KeyRepo backed by the given database.
func NewKeyRepo(db *DB) *KeyRepo {
	return &KeyRepo{db: db}
}

// Upsert stores or replaces the API key for the given email. A replaced key
// stops validating as soon as this call returns.
func (r *KeyRepo) Upsert(ctx context.Context, email, apiKey string) error {
	const query = `INSERT OR REPLACE INTO api_keys (email, api_key, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	_, err := r.db.Writer.ExecContext(ctx, query, email, apiKey)
	if err != nil {
		return fmt.Errorf("upsert key for %q: %w", email, err)
	}
	return nil
}

// LookupEmail returns the email an API key was issued to.
// Returns ("", nil) if the key is not in the store.
func (r *KeyRepo) LookupEmail(ctx context.Context, apiKey string) (string, error) {
	const query = `SELECT email FROM api_keys WHERE api_key = ?`
	var email string
	err := r.db.Reader.QueryRowContext(ctx, query, apiKey).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup key: %w", err)
	}
	return email, nil
}

package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRepo_UpsertAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyRepo(db)
	ctx := context.Background()

	err := repo.Upsert(ctx, "user@example.com", "aaaabbbbccccddddeeeeffff00001111")
	require.NoError(t, err)

	email, err := repo.LookupEmail(ctx, "aaaabbbbccccddddeeeeffff00001111")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestKeyRepo_LookupUnknownKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyRepo(db)

	email, err := repo.LookupEmail(context.Background(), "0123456789abcdef0123456789abcdef")

	require.NoError(t, err)
	assert.Empty(t, email)
}

// TestKeyRepo_UpsertReplaces verifies the at-most-one-key-per-email
// invariant: a second upsert for the same email invalidates the first key.
func TestKeyRepo_UpsertReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user@example.com", "11111111111111111111111111111111"))
	require.NoError(t, repo.Upsert(ctx, "user@example.com", "22222222222222222222222222222222"))

	email, err := repo.LookupEmail(ctx, "22222222222222222222222222222222")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)

	// The old key no longer validates.
	email, err = repo.LookupEmail(ctx, "11111111111111111111111111111111")
	require.NoError(t, err)
	assert.Empty(t, email)
}

// TestKeyRepo_EmailsAreCaseSensitive pins the decision to store emails
// exactly as the billing provider reports them, with no normalization.
func TestKeyRepo_EmailsAreCaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "User@Example.com", "33333333333333333333333333333333"))
	require.NoError(t, repo.Upsert(ctx, "user@example.com", "44444444444444444444444444444444"))

	email, err := repo.LookupEmail(ctx, "33333333333333333333333333333333")
	require.NoError(t, err)
	assert.Equal(t, "User@Example.com", email)
}

func TestKeyRepo_DistinctEmails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "a@example.com", "55555555555555555555555555555555"))
	require.NoError(t, repo.Upsert(ctx, "b@example.com", "66666666666666666666666666666666"))

	email, err := repo.LookupEmail(ctx, "55555555555555555555555555555555")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)

	email, err = repo.LookupEmail(ctx, "66666666666666666666666666666666")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", email)
}

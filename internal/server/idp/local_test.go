package idp

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_CreateAndVerify(t *testing.T) {
	t.Parallel()

	p := NewLocalProvider()
	ctx := context.Background()

	require.NoError(t, p.CreateAccount(ctx, "alice", models.RoleUser, "s3cret-pass"))

	assert.True(t, p.VerifyPassword("alice", "s3cret-pass"))
	assert.False(t, p.VerifyPassword("alice", "wrong"))
	assert.False(t, p.VerifyPassword("ghost", "s3cret-pass"))
}

func TestLocalProvider_DuplicateAccount(t *testing.T) {
	t.Parallel()

	p := NewLocalProvider()
	ctx := context.Background()

	require.NoError(t, p.CreateAccount(ctx, "alice", models.RoleUser, "s3cret-pass"))
	assert.Error(t, p.CreateAccount(ctx, "alice", models.RoleUser, "another-pass"))
}

func TestLocalProvider_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	p := NewLocalProvider()
	ctx := context.Background()

	require.NoError(t, p.CreateAccount(ctx, "alice", models.RoleUser, "s3cret-pass"))
	require.NoError(t, p.DeleteAccount(ctx, "alice"))
	assert.False(t, p.VerifyPassword("alice", "s3cret-pass"))

	// Deleting an absent account is not an error.
	assert.NoError(t, p.DeleteAccount(ctx, "alice"))
}

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryResetTokenStore_SingleUse(t *testing.T) {
	store := auth.NewInMemoryResetTokenStore()
	ctx := context.Background()
	userID := uuid.New()

	token, err := store.Issue(ctx, userID, time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	got, err := store.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = store.Consume(ctx, token)
	assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
}

func TestInMemoryResetTokenStore_Rejects(t *testing.T) {
	store := auth.NewInMemoryResetTokenStore()
	ctx := context.Background()

	expired, err := store.Issue(ctx, uuid.New(), -time.Second)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired": expired,
		"unknown": "deadbeef",
		"empty":   "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Consume(ctx, token)
			assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
		})
	}
}

func TestInMemoryResetTokenStore_TokensAreDistinct(t *testing.T) {
	store := auth.NewInMemoryResetTokenStore()
	ctx := context.Background()
	userID := uuid.New()

	a, err := store.Issue(ctx, userID, time.Hour)
	require.NoError(t, err)
	b, err := store.Issue(ctx, userID, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

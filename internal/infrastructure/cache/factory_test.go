package cache

import (
	"testing"

	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Port 1 is reserved and never has a listener.
var unreachable = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestStoreFactory_FallsBackToInMemory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	stores, err := NewStoreFactory(unreachable, WithLogger(zap.New(core))).Create()
	require.NoError(t, err)

	assert.False(t, stores.Distributed())
	assert.Nil(t, stores.Client())
	assert.IsType(t, &auth.InMemoryTokenBlacklist{}, stores.Blacklist)
	assert.IsType(t, &auth.InMemoryResetTokenStore{}, stores.ResetTokens)
	assert.NoError(t, stores.Close())
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
}

func TestStoreFactory_FallbackDisabled(t *testing.T) {
	stores, err := NewStoreFactory(unreachable, WithInMemoryFallback(false)).Create()
	assert.Error(t, err)
	assert.Nil(t, stores)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	client, err := NewRedisClient(unreachable)
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

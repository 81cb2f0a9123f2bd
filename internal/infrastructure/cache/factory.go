package cache

import (
	"fmt"

	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionStores groups the revocation and reset token stores
type SessionStores struct {
	Blacklist   auth.TokenBlacklist
	ResetTokens auth.ResetTokenStore
	client      *redis.Client
}

// Distributed reports whether the stores are shared through Redis
func (s *SessionStores) Distributed() bool {
	return s.client != nil
}

// Client returns the Redis client, nil for in-memory stores
func (s *SessionStores) Client() *redis.Client {
	return s.client
}

// Close releases the Redis connection if there is one
func (s *SessionStores) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// StoreFactory creates session stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to in-memory stores
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory. Fallback is allowed by default.
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemory creates process-local stores
func (f *StoreFactory) InMemory() *SessionStores {
	return &SessionStores{
		Blacklist:   auth.NewInMemoryTokenBlacklist(),
		ResetTokens: auth.NewInMemoryResetTokenStore(),
	}
}

// WithClient creates Redis-backed stores on an existing client
func (f *StoreFactory) WithClient(client *redis.Client) *SessionStores {
	return &SessionStores{
		Blacklist:   auth.NewRedisTokenBlacklist(client),
		ResetTokens: auth.NewRedisResetTokenStore(client),
		client:      client,
	}
}

// Create connects to Redis, falling back to in-memory stores when allowed
func (f *StoreFactory) Create() (*SessionStores, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis session stores", zap.String("addr", f.redisConfig.Addr()))
		return f.WithClient(client), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for session stores but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory session stores. "+
		"Sign-outs and reset links will not be shared across instances.",
		zap.Error(err),
	)
	return f.InMemory(), nil
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrResetTokenInvalid is returned for unknown, used or expired reset tokens
var ErrResetTokenInvalid = errors.New("password reset link is invalid or has expired")

// ResetTokenStore issues single-use password reset tokens
type ResetTokenStore interface {
	// Issue creates a token that resolves to userID until ttl elapses
	Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	// Consume resolves and invalidates a token in one step
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RedisResetTokenStore keeps reset tokens in Redis with a TTL
type RedisResetTokenStore struct {
	client redis.Cmdable
}

// NewRedisResetTokenStore creates a reset token store on an existing Redis client
func NewRedisResetTokenStore(client redis.Cmdable) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func resetKey(token string) string {
	return "findash:reset:" + token
}

// Issue stores a fresh token for the user
func (s *RedisResetTokenStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, resetKey(token), userID.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

// Consume atomically reads and deletes the token
func (s *RedisResetTokenStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrResetTokenInvalid
	}
	raw, err := s.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrResetTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrResetTokenInvalid
	}
	return id, nil
}

var _ ResetTokenStore = (*RedisResetTokenStore)(nil)

type resetEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// InMemoryResetTokenStore keeps reset tokens in process memory
type InMemoryResetTokenStore struct {
	mu      sync.Mutex
	entries map[string]resetEntry
}

// NewInMemoryResetTokenStore creates an empty in-memory store
func NewInMemoryResetTokenStore() *InMemoryResetTokenStore {
	return &InMemoryResetTokenStore{entries: make(map[string]resetEntry)}
}

// Issue stores a fresh token for the user
func (s *InMemoryResetTokenStore) Issue(_ context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = resetEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return token, nil
}

// Consume resolves and deletes the token
func (s *InMemoryResetTokenStore) Consume(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return uuid.Nil, ErrResetTokenInvalid
	}
	delete(s.entries, token)
	if time.Now().After(entry.expiresAt) {
		return uuid.Nil, ErrResetTokenInvalid
	}
	return entry.userID, nil
}

var _ ResetTokenStore = (*InMemoryResetTokenStore)(nil)

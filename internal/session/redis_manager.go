package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medtrack/bp-monitor/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisManager stores sessions in Redis so that several service instances
// can resolve the same token. Entries expire after the configured TTL to
// clean up abandoned interactions.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager creates a Redis-backed session store
func NewRedisManager(addr string, ttl time.Duration) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "", // no password
		DB:           0,  // default DB
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{
		client: client,
		ttl:    ttl,
	}, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Put stores a session under its token with TTL
func (m *RedisManager) Put(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return m.client.Set(ctx, sessionKey(sess.Token), data, m.ttl).Err()
}

// Get looks up a session by token
func (m *RedisManager) Get(ctx context.Context, token string) (*domain.Session, bool) {
	result := m.client.Get(ctx, sessionKey(token))
	if result.Err() != nil {
		return nil, false
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(result.Val()), &sess); err != nil {
		return nil, false
	}
	return &sess, true
}

// Delete discards a session
func (m *RedisManager) Delete(ctx context.Context, token string) {
	m.client.Del(ctx, sessionKey(token))
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}

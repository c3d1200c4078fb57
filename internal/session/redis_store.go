// Package session tracks live wish-list sessions. Session state lives in
// process memory; the lease store only records which session ids are alive
// and when they expire.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaseData is the record stored for each live session
type LeaseData struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	TouchedAt time.Time `json:"touched_at"`
}

// RedisStore implements LeaseStore using Redis key expiry
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed lease store
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "wishlist:session:",
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Touch creates or refreshes the lease for sessionID
func (s *RedisStore) Touch(ctx context.Context, sessionID string, createdAt time.Time, ttl time.Duration) error {
	data := LeaseData{
		SessionID: sessionID,
		CreatedAt: createdAt,
		TouchedAt: time.Now().UTC(),
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal lease: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("save lease: %w", err)
	}
	return nil
}

// Lookup returns the lease for sessionID, or ErrLeaseNotFound once it has expired
func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (LeaseData, error) {
	jsonData, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return LeaseData{}, ErrLeaseNotFound
	}
	if err != nil {
		return LeaseData{}, fmt.Errorf("lookup lease: %w", err)
	}

	var data LeaseData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return LeaseData{}, fmt.Errorf("unmarshal lease: %w", err)
	}
	return data, nil
}

// Revoke deletes the lease
func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("revoke lease: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

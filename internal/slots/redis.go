package slots

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// redisKeyPrefix namespaces slot pairs in a shared Redis.
const redisKeyPrefix = "viewgate:slots:"

// RedisConfig holds connection settings for the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL per stored pair. Zero means DefaultTTL.
	TTL time.Duration
}

// RedisStore persists slot pairs in Redis, for deployments where more
// than one instance serves the same sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, domain.ErrStorageError.WithDetails("redis connection failed").WithCause(err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (Pair, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return NullPair(), nil
	}
	if err != nil {
		return NullPair(), domain.ErrStorageError.WithDetails("redis get failed").WithCause(err)
	}

	var p Pair
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt entry means a logged-out session, not a dead server.
		return NullPair(), nil
	}
	return p.Normalize(), nil
}

// Save implements Store. Each save refreshes the TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, p Pair) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument.WithDetails("session ID is required")
	}

	data, err := json.Marshal(p.Normalize())
	if err != nil {
		return domain.ErrInternalServer.WithDetails("marshal pair").WithCause(err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return domain.ErrStorageError.WithDetails("redis set failed").WithCause(err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return domain.ErrStorageError.WithDetails("redis del failed").WithCause(err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

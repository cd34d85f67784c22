package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "training-session||"

// RedisStore keeps sessions as JSON values that Redis expires after ttl.
type RedisStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject the session id generator (for unit testing)
	NewIDFunc func() string
}

func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		ttl:         ttl,
		NewIDFunc:   uuid.NewString,
	}
}

func (s *RedisStore) Create(ctx context.Context, data Data) (string, error) {
	id := s.NewIDFunc()
	value, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	if err := s.redisClient.Set(ctx, sessionKeyPrefix+id, string(value), s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Data, error) {
	value, err := s.redisClient.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var data Data
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.redisClient.Del(ctx, sessionKeyPrefix+id).Err()
}

package users

import (
	"context"
	"errors"
	"fmt"

	domain "bondregistry/internal/domain/entity/users"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	apiKeyPrefix     = "bonds:apikey:"
	userAPIKeyPrefix = "bonds:apikey:user:"
)

// RedisAPIKeyStore keeps API keys in Redis, shared by every server instance.
type RedisAPIKeyStore struct {
	client *redis.Client
	prefix string
}

type RedisAPIKeyStoreOption func(*RedisAPIKeyStore)

// WithKeyPrefix namespaces the stored keys, e.g. per environment.
func WithKeyPrefix(prefix string) RedisAPIKeyStoreOption {
	return func(s *RedisAPIKeyStore) {
		s.prefix = prefix
	}
}

func NewRedisAPIKeyStore(client *redis.Client, opts ...RedisAPIKeyStoreOption) *RedisAPIKeyStore {
	store := &RedisAPIKeyStore{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// SaveAPIKey stores both directions of the mapping in one transaction and
// drops the user's previous key.
func (s *RedisAPIKeyStore) SaveAPIKey(ctx context.Context, key string, userID uuid.UUID) error {
	if key == "" {
		return errors.New("api key is empty")
	}
	userKey := s.prefix + userAPIKeyPrefix + userID.String()

	previous, err := s.client.Get(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("load previous api key: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != "" && previous != key {
			pipe.Del(ctx, s.prefix+apiKeyPrefix+previous)
		}
		pipe.Set(ctx, s.prefix+apiKeyPrefix+key, userID.String(), 0)
		pipe.Set(ctx, userKey, key, 0)
		return nil
	})
	return err
}

func (s *RedisAPIKeyStore) LookupAPIKey(ctx context.Context, key string) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, s.prefix+apiKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, domain.ErrAPIKeyNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt api key entry: %w", err)
	}
	return id, nil
}

func (s *RedisAPIKeyStore) APIKeyForUser(ctx context.Context, userID uuid.UUID) (string, error) {
	key, err := s.client.Get(ctx, s.prefix+userAPIKeyPrefix+userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrAPIKeyNotFound
	}
	return key, err
}

package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

const defaultRedisRetries = 10

// RedisStore keeps the document under one key. Update uses WATCH/MULTI so concurrent
// writers retry instead of overwriting each other.
type RedisStore struct {
	client     *redis.Client
	key        string
	maxRetries int
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key, maxRetries: defaultRedisRetries}
}

func (s *RedisStore) Load(ctx context.Context) (*models.FilterConfiguration, error) {
	return s.get(ctx, s.client)
}

func (s *RedisStore) Save(ctx context.Context, cfg *models.FilterConfiguration) error {
	data, err := Encode(cfg)
	if err != nil {
		return persistErr("redis", "save", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return persistErr("redis", "save", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, fn MutateFunc) (*models.FilterConfiguration, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		var (
			result *models.FilterConfiguration
			fnErr  error
		)

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			cfg, err := s.get(ctx, tx)
			if err != nil {
				return err
			}

			changed, err := fn(cfg)
			if err != nil {
				fnErr = err
				return nil
			}
			result = cfg
			if !changed {
				return nil
			}

			data, err := Encode(cfg)
			if err != nil {
				return persistErr("redis", "update", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, s.key, data, 0)
				return nil
			})
			return err
		}, s.key)

		if fnErr != nil {
			return nil, fnErr
		}
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			slog.Debug("filter config changed concurrently, retrying", "attempt", attempt+1)
			continue
		}
		if IsPersistence(err) {
			return nil, err
		}
		return nil, persistErr("redis", "update", err)
	}
	return nil, persistErr("redis", "update", ErrConflict)
}

func (s *RedisStore) Close() error { return nil }

func (s *RedisStore) get(ctx context.Context, c redis.Cmdable) (*models.FilterConfiguration, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return DefaultConfiguration(), nil
	}
	if err != nil {
		return nil, persistErr("redis", "load", err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, persistErr("redis", "load", err)
	}
	return cfg, nil
}

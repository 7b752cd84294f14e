package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore разделяет ключи между несколькими экземплярами API
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedis(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "procurement:"}
}

func (s *RedisStore) Reserve(ctx context.Context, key string, fingerprint uint64, ttl time.Duration) (*Record, bool, error) {
	payload, err := json.Marshal(Record{Fingerprint: fingerprint})
	if err != nil {
		return nil, false, err
	}
	ok, err := s.client.SetNX(ctx, s.prefix+key, payload, ttl).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "redis setnx")
	}
	if ok {
		return nil, true, nil
	}

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return s.Reserve(ctx, key, fingerprint, ttl)
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	var existing Record
	if err := json.Unmarshal(raw, &existing); err != nil {
		return nil, false, errors.Wrap(err, "decode idempotency record")
	}
	return &existing, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	rec.Done = true
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return errors.Wrap(s.client.Set(ctx, s.prefix+key, payload, ttl).Err(), "redis set")
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return errors.Wrap(s.client.Del(ctx, s.prefix+key).Err(), "redis del")
}

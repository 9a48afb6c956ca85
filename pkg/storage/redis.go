package storage

import (
	"context"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	LocalKey(key string) string
	Close() error
}

// Redis stores entries under the client's namespaced local keys. Entries do
// not expire.
type Redis struct {
	client redisKV
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.client.LocalKey(key))
	if redis.IsNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.client.LocalKey(key), string(value), 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.LocalKey(key))
}

func (r *Redis) Close() error {
	return r.client.Close()
}

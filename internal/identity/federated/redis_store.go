package federated

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a persistent TokenStore. Bearer tokens carry no expiry,
// so entries are written without a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "token:",
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (string, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("federated: token lookup: %w", err)
	}
	return val, nil
}

func (r *RedisStore) Put(ctx context.Context, id, token string) error {
	if id == "" || token == "" {
		return fmt.Errorf("federated: missing id or token")
	}
	if err := r.client.Set(ctx, r.key(id), token, 0).Err(); err != nil {
		return fmt.Errorf("federated: token write: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("federated: token delete: %w", err)
	}
	return nil
}

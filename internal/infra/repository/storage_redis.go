package repository

import (
	"context"
	"errors"

	"pedidos/internal/config"
	repo "pedidos/internal/repository"

	"github.com/redis/go-redis/v9"
)

// redisを使うKeyValueStore（期限なし）
type StorageRedisRepository struct {
	client *redis.Client
	prefix string
}

func NewStorageRedisRepository(cfg config.StorageConfig) *StorageRedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return NewStorageRedisRepositoryWithClient(client, cfg.RedisPrefix)
}

func NewStorageRedisRepositoryWithClient(client *redis.Client, prefix string) *StorageRedisRepository {
	return &StorageRedisRepository{client: client, prefix: prefix}
}

func (r *StorageRedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *StorageRedisRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *StorageRedisRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *StorageRedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *StorageRedisRepository) Close() error {
	return r.client.Close()
}

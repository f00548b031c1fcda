package repository

import (
	"context"
	"sync"

	repo "pedidos/internal/repository"
)

// プロセス内だけのKeyValueStore（テスト・開発用）
type StorageMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewStorageMemoryRepository() *StorageMemoryRepository {
	return &StorageMemoryRepository{
		store: make(map[string][]byte),
	}
}

func (r *StorageMemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.store[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *StorageMemoryRepository) Put(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	r.store[key] = v
	return nil
}

func (r *StorageMemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, key)
	return nil
}

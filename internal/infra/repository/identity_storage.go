package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const identityKey = "user"

// セッションを "user" に JSON で保存する
type IdentityStorageRepository struct {
	kv repo.KeyValueStore
}

func NewIdentityStorageRepository(kv repo.KeyValueStore) *IdentityStorageRepository {
	return &IdentityStorageRepository{kv: kv}
}

func (r *IdentityStorageRepository) Load(ctx context.Context) (model.Identity, error) {
	data, err := r.kv.Get(ctx, identityKey)
	if err != nil {
		return model.Identity{}, err
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return model.Identity{}, fmt.Errorf("%w: %s: %w", repo.ErrCorruptRecord, identityKey, err)
	}
	//壊れた保存は未ログイン扱い
	if id.Token == "" {
		return model.Identity{}, repo.ErrNotFound
	}
	return id, nil
}

func (r *IdentityStorageRepository) Save(ctx context.Context, identity model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, identityKey, data)
}

func (r *IdentityStorageRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, identityKey)
}

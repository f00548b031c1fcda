package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const cartKey = "carrito"

// カートを "carrito" に JSON 配列で保存する
type CartStorageRepository struct {
	kv repo.KeyValueStore
}

func NewCartStorageRepository(kv repo.KeyValueStore) *CartStorageRepository {
	return &CartStorageRepository{kv: kv}
}

// 保存が無ければ空のカート
func (r *CartStorageRepository) Load(ctx context.Context) ([]model.CartLine, error) {
	data, err := r.kv.Get(ctx, cartKey)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repo.ErrCorruptRecord, cartKey, err)
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, nil
}

func (r *CartStorageRepository) Save(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, cartKey, data)
}

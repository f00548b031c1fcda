package repository

import (
	"context"
	"errors"

	"pedidos/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// /api/productos/ の読み書きを約束。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, in model.ProductInput) (model.Product, error)
	Update(ctx context.Context, id int64, in model.ProductInput) (model.Product, error)
	Delete(ctx context.Context, id int64) error
}

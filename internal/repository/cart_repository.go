package repository

import (
	"context"

	"pedidos/internal/domain/model"
)

// カートは丸ごと保存・丸ごと読み込み
type CartRepository interface {
	Load(ctx context.Context) ([]model.CartLine, error)
	Save(ctx context.Context, lines []model.CartLine) error
}

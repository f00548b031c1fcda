package repository

import (
	"context"

	"pedidos/internal/domain/model"
)

// セッションの保存先。保存が無ければ ErrNotFound（=未ログイン）
type IdentityRepository interface {
	Load(ctx context.Context) (model.Identity, error)
	Save(ctx context.Context, identity model.Identity) error
	Clear(ctx context.Context) error
}

package repository

import (
	"context"
	"errors"

	"pedidos/internal/domain/model"
)

// ユーザー名またはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// /api/token/ でアクセストークンとリフレッシュトークンを取得する約束
type TokenRepository interface {
	Obtain(ctx context.Context, username string, password string) (model.TokenPair, error)
}

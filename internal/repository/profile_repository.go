package repository

import (
	"context"

	"pedidos/internal/domain/model"
)

type ProfileRepository interface {
	// role が空なら絞り込みなし
	List(ctx context.Context, role model.Role) ([]model.Profile, error)
}

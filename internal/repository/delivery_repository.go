package repository

import (
	"context"

	"pedidos/internal/domain/model"
)

type DeliveryRepository interface {
	List(ctx context.Context) ([]model.Delivery, error)
	Create(ctx context.Context, in model.DeliveryInput) (model.Delivery, error)
	Update(ctx context.Context, id int64, patch model.DeliveryPatch) (model.Delivery, error)
	Delete(ctx context.Context, id int64) error
}

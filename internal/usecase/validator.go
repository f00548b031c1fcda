package usecase

import (
	"context"

	"pedidos/internal/domain/model"
)

// usecaseがValidatorInterfaceに依存する約束
type InputValidator interface {
	ValidateLogin(ctx context.Context, username string, password string) error
	ValidateProduct(ctx context.Context, in model.ProductInput) error
	ValidateOrderMeta(ctx context.Context, meta OrderMeta) error
	ValidateOrderStatus(ctx context.Context, status model.OrderStatus) error
	ValidateDeliveryInput(ctx context.Context, in model.DeliveryInput) error
	ValidateDeliveryPatch(ctx context.Context, patch model.DeliveryPatch) error
}

package validator

import (
	"context"
	"fmt"
	"strings"

	"pedidos/internal/domain/model"
	"pedidos/internal/usecase"
)

type inputValidator struct{}

// Usecaseは interface を依存注入
func NewInputValidator() usecase.InputValidator {
	return &inputValidator{}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", usecase.ErrValidation, fmt.Sprintf(format, args...))
}

// ログインの入力を検証（空白だけもNG）
func (v *inputValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return invalid("username and password are required")
	}
	return nil
}

// 商品の入力を検証
func (v *inputValidator) ValidateProduct(ctx context.Context, in model.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("nombre is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalid("descripcion is required")
	}
	if in.Price.IsNegative() {
		return invalid("precio must be >= 0")
	}
	if in.Stock < 0 {
		return invalid("stock must be >= 0")
	}
	return nil
}

// 注文の入力を検証。estado 空は pendiente 扱いなのでOK
func (v *inputValidator) ValidateOrderMeta(ctx context.Context, meta usecase.OrderMeta) error {
	if strings.TrimSpace(meta.ShippingAddress) == "" {
		return invalid("direccion_envio is required")
	}
	if meta.Status != "" && !meta.Status.Valid() {
		return invalid("unknown estado %q", meta.Status)
	}
	return nil
}

// 遷移のチェックはしない（サーバーが判断する）
func (v *inputValidator) ValidateOrderStatus(ctx context.Context, status model.OrderStatus) error {
	if !status.Valid() {
		return invalid("unknown estado %q", status)
	}
	return nil
}

func (v *inputValidator) ValidateDeliveryInput(ctx context.Context, in model.DeliveryInput) error {
	if in.OrderID <= 0 {
		return invalid("pedido is required")
	}
	if in.CourierID != nil && *in.CourierID <= 0 {
		return invalid("invalid asignado_a")
	}
	if !in.Status.Valid() {
		return invalid("unknown estado %q", in.Status)
	}
	return nil
}

func (v *inputValidator) ValidateDeliveryPatch(ctx context.Context, patch model.DeliveryPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return invalid("unknown estado %q", *patch.Status)
	}
	//null は担当なしに戻す
	if v := patch.CourierID.Value; v != nil && *v <= 0 {
		return invalid("invalid asignado_a")
	}
	if patch == (model.DeliveryPatch{}) {
		return invalid("nothing to update")
	}
	return nil
}

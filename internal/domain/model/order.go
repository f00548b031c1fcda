package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendiente OrderStatus = "pendiente"
	OrderStatusEnProceso OrderStatus = "en_proceso"
	OrderStatusEnCamino  OrderStatus = "en_camino"
	OrderStatusEntregado OrderStatus = "entregado"
	OrderStatusCancelado OrderStatus = "cancelado"
	OrderStatusProblema  OrderStatus = "problema"
)

// 遷移の正しさはサーバーが判断する。ここでは値の妥当性だけ見る
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPendiente, OrderStatusEnProceso, OrderStatusEnCamino,
		OrderStatusEntregado, OrderStatusCancelado, OrderStatusProblema:
		return true
	}
	return false
}

type Order struct {
	ID              int64           `json:"id"`
	ClienteID       int64           `json:"cliente"`
	ShippingAddress string          `json:"direccion_envio"`
	Status          OrderStatus     `json:"estado"`
	Total           decimal.Decimal `json:"monto_total"`
	OrderedAt       *time.Time      `json:"fecha_pedido,omitempty"`
	Items           []OrderItem     `json:"items"`
}

// POST /api/pedidos/crear-con-items/ のボディ
type OrderDraft struct {
	Order OrderHeader      `json:"pedido"`
	Items []OrderDraftItem `json:"items"`
}

type OrderHeader struct {
	ClienteID       int64           `json:"cliente"`
	ShippingAddress string          `json:"direccion_envio"`
	Status          OrderStatus     `json:"estado"`
	Total           decimal.Decimal `json:"monto_total"`
}

type OrderDraftItem struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int64 `json:"cantidad"`
}

package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPendiente DeliveryStatus = "pendiente"
	DeliveryStatusEnCamino  DeliveryStatus = "en_camino"
	DeliveryStatusEntregado DeliveryStatus = "entregado"
	DeliveryStatusProblema  DeliveryStatus = "problema"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPendiente, DeliveryStatusEnCamino, DeliveryStatusEntregado, DeliveryStatusProblema:
		return true
	}
	return false
}

// 1つの注文に1つの配送
type Delivery struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"pedido"`
	CourierID      *int64         `json:"asignado_a"`
	Status         DeliveryStatus `json:"estado"`
	DeliveredAt    *time.Time     `json:"fecha_entrega"`
	TrackingNumber string         `json:"numero_seguimiento"`
	Vehicle        string         `json:"vehiculo"`
	Available      bool           `json:"disponible"`
}

// 管理者が作成するときの入力
type DeliveryInput struct {
	OrderID        int64          `json:"pedido"`
	CourierID      *int64         `json:"asignado_a"`
	Status         DeliveryStatus `json:"estado"`
	DeliveredAt    *time.Time     `json:"fecha_entrega,omitempty"`
	TrackingNumber string         `json:"numero_seguimiento,omitempty"`
	Vehicle        string         `json:"vehiculo,omitempty"`
	Available      bool           `json:"disponible"`
}

// PATCH 用。nilのフィールドは送らない。
// 担当者と配達日時は null（担当なし・未配達）に戻せる
type DeliveryPatch struct {
	CourierID      Nullable[int64]     `json:"asignado_a,omitzero"`
	Status         *DeliveryStatus     `json:"estado,omitempty"`
	DeliveredAt    Nullable[time.Time] `json:"fecha_entrega,omitzero"`
	TrackingNumber *string             `json:"numero_seguimiento,omitempty"`
	Vehicle        *string             `json:"vehiculo,omitempty"`
	Available      *bool               `json:"disponible,omitempty"`
}

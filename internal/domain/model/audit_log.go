package model

import "time"

// 商品更新、注文ステータス更新など。
type AuditAction string

const (
	AuditActionCreateProduct     AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct     AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct     AuditAction = "DELETE_PRODUCT"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionDeleteOrder       AuditAction = "DELETE_ORDER"
	AuditActionCreateDelivery    AuditAction = "CREATE_DELIVERY"
	AuditActionUpdateDelivery    AuditAction = "UPDATE_DELIVERY"
	AuditActionDeleteDelivery    AuditAction = "DELETE_DELIVERY"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "producto"
	AuditResourceOrder    AuditResourceType = "pedido"
	AuditResourceDelivery AuditResourceType = "entrega"
)

// 監査イベント（管理操作の記録）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
// Kafkaに送るか、postgresストレージのときはテーブルに残す。
type AuditEvent struct {
	//uuid
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//送った内容（JSON文字列）
	PayloadJSON string `gorm:"type:text" json:"payload_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

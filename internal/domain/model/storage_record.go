package model

import "time"

// 端末側の永続化領域（key単位でJSONを保存）
type StorageRecord struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)"`
	Value     []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

package repository

import (
	"context"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"gorm.io/gorm"
)

// 監査イベントを audit_events テーブルに残す（STORAGE_DRIVER=postgres のとき）
type AuditGormPublisher struct {
	db *gorm.DB
}

var _ repo.AuditPublisher = (*AuditGormPublisher)(nil)

func NewAuditGormPublisher(db *gorm.DB) *AuditGormPublisher {
	return &AuditGormPublisher{db: db}
}

func (r *AuditGormPublisher) Publish(ctx context.Context, event model.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return err
	}
	return nil
}

// 接続は呼び出し側が持つ
func (r *AuditGormPublisher) Close() error {
	return nil
}

package repository

import (
	"context"

	"pedidos/internal/domain/model"
)

// 監査イベントの送信先
type AuditPublisher interface {
	Publish(ctx context.Context, event model.AuditEvent) error
	Close() error
}

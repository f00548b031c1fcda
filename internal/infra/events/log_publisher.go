package events

import (
	"context"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
)

var _ repo.AuditPublisher = (*LogPublisher)(nil)

// KAFKA_BROKERS が無いときの送信先。ログに出すだけ
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{logger: log.New("audit")}
}

func (p *LogPublisher) Publish(ctx context.Context, event model.AuditEvent) error {
	p.logger.Debugf("audit %s %s/%d by user %d", event.Action, event.ResourceType, event.ResourceID, event.ActorUserID)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

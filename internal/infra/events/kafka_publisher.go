package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pedidos/internal/config"
	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
)

var _ repo.AuditPublisher = (*KafkaPublisher)(nil)

// messageWriter は kafka.Writer のうち使う部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher は監査イベントをKafkaのトピックに送る
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *log.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, cfg.Topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		topic:  topic,
		logger: log.New("audit"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.AuditEvent) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Errorf("publish %s %s/%d failed: %v", event.Action, event.ResourceType, event.ResourceID, err)
		return err
	}

	p.logger.Infof("published %s %s/%d (event_id=%s topic=%s)", event.Action, event.ResourceType, event.ResourceID, event.ID, p.topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.logger.Info("closing kafka publisher")
	return p.writer.Close()
}

// 同じ対象のイベントは同じパーティションに入るよう key は対象で決める
func toMessage(event model.AuditEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("%s:%d", event.ResourceType, event.ResourceID)),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}, nil
}

package repository

import (
	"context"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/internal/domain/repository"
	pkgkafka "github.com/Vitek192/sola-sub000/pkg/kafka"
)

// KafkaAlertPublisher implements AlertPublisher over a Kafka topic. Alerts
// are keyed by token address so one token's alerts stay ordered.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates the Kafka alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) repository.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, a models.RiskAlert) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.TokenAddress), a)
}

func (p *KafkaAlertPublisher) PublishBatch(ctx context.Context, alerts []models.RiskAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(alerts))
	for _, a := range alerts {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(a.TokenAddress), Value: a})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

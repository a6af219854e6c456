package audit

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Topic is the Kafka topic audit events are published to.
const Topic = "coffeerun_audit"

type Producer interface {
	SendMessage(ctx context.Context, key, value []byte) error
	Close() error
}

// KafkaProducer publishes events to the audit topic.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaProducer) SendMessage(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// ConsoleProducer logs events instead of publishing them. It is the default
// when no brokers are configured, which is the common single-machine setup.
type ConsoleProducer struct {
	logger *zap.Logger
}

func NewConsoleProducer(logger *zap.Logger) *ConsoleProducer {
	return &ConsoleProducer{logger: logger}
}

func (p *ConsoleProducer) SendMessage(_ context.Context, key, value []byte) error {
	p.logger.Info("audit event",
		zap.ByteString("key", key),
		zap.ByteString("value", value))
	return nil
}

func (p *ConsoleProducer) Close() error {
	return nil
}

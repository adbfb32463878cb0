package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Publisher публикует доменные события сервиса
type Publisher interface {
	Publish(ctx context.Context, key string, event interface{}) error
	Close() error
}

// Producer публикует события в Kafka
type Producer struct {
	writer *kafka.Writer
	logger Logger
}

// NewProducer создает продюсер событий для заданного топика
func NewProducer(brokers []string, topic string, logger Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// Publish сериализует событие и отправляет его с заданным ключом партиционирования
// Ошибка публикации не должна ломать бизнес-операцию: вызывающий код
// логирует её и продолжает
func (p *Producer) Publish(ctx context.Context, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("Publish - marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("Publish - write message: %w", err)
	}

	p.logger.Debug("events.Publish: sent event with key %s", key)
	return nil
}

// Close закрывает соединение с Kafka
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher заглушка для окружений без Kafka
type NoopPublisher struct{}

// NewNoopPublisher создает публикатор, молча игнорирующий события
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(_ context.Context, _ string, _ interface{}) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}

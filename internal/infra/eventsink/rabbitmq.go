package eventsink

import (
	"context"
	"fmt"
	"sync"

	"tableorder/internal/infra/eventbus"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// topic exchangeにrouting key=イベント種別で送る
type RabbitMQSink struct {
	conn     *amqp.Connection
	ch       amqpPublisher
	exchange string
	//チャネルは並行publish不可
	mu sync.Mutex
}

func NewRabbitMQSink(url, exchange string) (*RabbitMQSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	return &RabbitMQSink{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *RabbitMQSink) Write(ctx context.Context, ev eventbus.Event) error {
	body, err := encode(ev)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch.PublishWithContext(ctx, s.exchange, ev.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		ContentType:  "application/json",
		Type:         ev.Type,
		Headers:      amqp.Table{"store_id": storeKey(ev)},
		Body:         body,
	})
}

func (s *RabbitMQSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

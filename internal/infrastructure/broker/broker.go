package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "bondregistry/internal/domain/entity/bonds"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends bond events to a durable topic exchange. The routing key
// is the event type, e.g. "bond.created".
type Publisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   logrus.FieldLogger
	mu       sync.Mutex
}

// Dial connects to RabbitMQ and declares the exchange.
func Dial(url, exchange string, logger logrus.FieldLogger) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create channel: %w", err)
	}
	p, err := newPublisher(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger logrus.FieldLogger) (*Publisher, error) {
	if exchange == "" {
		ch.Close()
		return nil, errors.New("exchange name cannot be empty")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *Publisher) PublishBondEvent(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(newBondMessage(event))
	if err != nil {
		return fmt.Errorf("marshal bond event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	})
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.channel.Close(); err != nil {
		p.logger.Errorf("close rabbitmq channel: %v", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Errorf("close rabbitmq connection: %v", err)
		}
	}
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const defaultExchange = "league.events"

type AMQPPublisherConfig struct {
	URL      string
	Exchange string
}

// AMQPPublisher publishes events to a topic exchange; the event type is the routing key.
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(cfg AMQPPublisherConfig, logger *slog.Logger) (*AMQPPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("amqp url is required")
	}
	if cfg.Exchange == "" {
		cfg.Exchange = defaultExchange
	}
	p := &AMQPPublisher{url: cfg.URL, exchange: cfg.Exchange, logger: logger}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	p.conn = conn
	p.channel = ch
	p.logger.Info("AMQP publisher connected", slog.String("exchange", p.exchange))
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// соединение могло быть закрыто брокером, переподключаемся один раз
	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
	}
	if err := p.channel.Publish(p.exchange, string(e.Type), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.ID, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Publisher delivers budget alerts to interested consumers.
type Publisher interface {
	PublishBudgetAlert(ctx context.Context, alert BudgetAlert) error
	Close() error
}

type noopPublisher struct{}

func (noopPublisher) PublishBudgetAlert(context.Context, BudgetAlert) error { return nil }
func (noopPublisher) Close() error                                        { return nil }

// NewNoopPublisher drops every alert. It is used when no broker is configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes alerts as persistent JSON messages on a topic
// exchange.
type AMQPPublisher struct {
	mu         sync.Mutex
	conn       *amqp091.Connection
	ch         channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

// DialAMQP connects to url and declares the alert exchange.
func DialAMQP(url, exchange, routingKey string, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newAMQPPublisher(ch, exchange, routingKey, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch channel, exchange, routingKey string, logger *slog.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (p *AMQPPublisher) PublishBudgetAlert(ctx context.Context, alert BudgetAlert) error {
	body, err := alert.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal budget alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    alert.At,
		Type:         "budget.alert",
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish budget alert: %w", err)
	}

	p.logger.InfoContext(ctx, "budget_alert_published",
		"budget_id", alert.BudgetID,
		"project_id", alert.ProjectID,
		"status", string(alert.Current),
		"exchange", p.exchange,
		"routing_key", p.routingKey,
	)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

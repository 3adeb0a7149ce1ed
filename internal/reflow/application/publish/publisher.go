// Package publish delivers reflow-run domain events to a topic exchange,
// shielded by a circuit breaker so a degraded broker slows a reflow call
// down rather than blocking it indefinitely.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker/v2"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
)

// ExchangeName is the topic exchange every reflow-run event is published
// to. Routing keys are domain.RoutingKeyReflowCompleted and friends.
const ExchangeName = "reflow.domain.events"

// EventPublisher delivers a reflow-run domain event under its routing key.
type EventPublisher interface {
	PublishReflowCompleted(ctx context.Context, event domain.ReflowCompleted) error
	PublishOrderDelayed(ctx context.Context, event domain.OrderDelayed) error
	Close() error
}

// RabbitMQPublisher publishes events to a durable topic exchange,
// wrapping each publish in a circuit breaker so sustained broker failures
// trip open instead of stalling every subsequent reflow call.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	breaker  *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
	mu       sync.Mutex
}

// BreakerSettings configures the circuit breaker guarding publish calls.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerSettings returns sensible defaults for a broker that is
// usually healthy but occasionally blips.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// NewRabbitMQPublisher dials url, declares the topic exchange, and returns
// a publisher ready to use.
func NewRabbitMQPublisher(url string, settings BreakerSettings, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	breakerSettings := gobreaker.Settings{
		Name:        "reflow-event-publisher",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("publisher circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	logger.Info("rabbitmq publisher connected", "exchange", ExchangeName)

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: ExchangeName,
		breaker:  gobreaker.NewCircuitBreaker[any](breakerSettings),
		logger:   logger,
	}, nil
}

// PublishReflowCompleted marshals event and publishes it under its
// routing key.
func (p *RabbitMQPublisher) PublishReflowCompleted(ctx context.Context, event domain.ReflowCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal reflow completed event: %w", err)
	}
	return p.publish(ctx, event.RoutingKey(), payload)
}

// PublishOrderDelayed marshals event and publishes it under its routing key.
func (p *RabbitMQPublisher) PublishOrderDelayed(ctx context.Context, event domain.OrderDelayed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order delayed event: %w", err)
	}
	return p.publish(ctx, event.RoutingKey(), payload)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, payload []byte) error {
	_, err := p.breaker.Execute(func() (any, error) {
		p.mu.Lock()
		defer p.mu.Unlock()

		return nil, p.channel.PublishWithContext(ctx,
			p.exchange,
			routingKey,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
				Body:         payload,
			},
		)
	})

	if err != nil {
		p.logger.Error("failed to publish reflow event", "routing_key", routingKey, "error", err)
		return err
	}

	p.logger.Debug("reflow event published", "routing_key", routingKey, "size", len(payload))
	return nil
}

// Ping reports whether the underlying connection is still open.
func (p *RabbitMQPublisher) Ping(_ context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("error closing channel", "error", err)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher discards every event. Used when the broker is unreachable.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher returns a publisher that only logs.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) PublishReflowCompleted(_ context.Context, event domain.ReflowCompleted) error {
	p.logger.Debug("noop publish", "routing_key", event.RoutingKey())
	return nil
}

func (p *NoopPublisher) PublishOrderDelayed(_ context.Context, event domain.OrderDelayed) error {
	p.logger.Debug("noop publish", "routing_key", event.RoutingKey())
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hanghae99-6-d/backend/pkg/events"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

var ErrNotAcknowledged = errors.New("message was not acknowledged by broker")

// Publisher implements events.Publisher on a topic exchange with publisher
// confirms.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	service string

	mu       sync.Mutex
	declared map[string]struct{}
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(url, service string) (*Publisher, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		closeAll(nil, conn)
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	zap.L().Info("RabbitMQ publisher connected successfully")

	return &Publisher{
		conn:     conn,
		channel:  channel,
		service:  service,
		declared: make(map[string]struct{}),
	}, nil
}

// ensureExchange declares each exchange once per publisher.
func (p *Publisher) ensureExchange(exchange string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.declared[exchange]; ok {
		return nil
	}
	if err := declareTopic(p.channel, exchange); err != nil {
		return err
	}
	p.declared[exchange] = struct{}{}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	if err := p.ensureExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	service := headers.Service
	if service == "" {
		service = p.service
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        service,
		},
	}

	routingKey := event.GetRoutingKey()

	// A channel per publish keeps confirmations of concurrent publishes apart.
	publishCh, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to create publish channel: %w", err)
	}
	defer publishCh.Close()

	if err := publishCh.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable confirms: %w", err)
	}
	confirms := publishCh.NotifyPublish(make(chan amqp.Confirmation, 1))

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := publishCh.PublishWithContext(publishCtx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-confirms:
		if !confirm.Ack {
			return ErrNotAcknowledged
		}
	case <-publishCtx.Done():
		return fmt.Errorf("publish confirmation timeout: %w", publishCtx.Err())
	}

	zap.L().Info("Event published successfully",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("traceId", headers.TraceID),
	)

	return nil
}

func (p *Publisher) IsHealthy() bool {
	if p == nil || p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed() && !p.channel.IsClosed()
}

func (p *Publisher) Close() error {
	closeAll(p.channel, nil)
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	zap.L().Info("RabbitMQ publisher closed")
	return nil
}

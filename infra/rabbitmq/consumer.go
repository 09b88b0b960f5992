package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hanghae99-6-d/backend/pkg/events"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPrefetch       = 10
	defaultProcessTimeout = 30 * time.Second
)

var ErrDeliveriesClosed = errors.New("message channel closed")

// EventHandler processes one event. A returned error dead-letters the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	queueName      string
	serviceName    string
	processTimeout time.Duration
}

type ConsumerConfig struct {
	Exchange       string   // e.g. "group.group"
	QueueName      string   // e.g. "comment.group.deleted.v1"
	RoutingKeys    []string // e.g. ["group.deleted.v1"]
	ServiceName    string
	PrefetchCount  int           // 0 means defaultPrefetch
	ProcessTimeout time.Duration // 0 means defaultProcessTimeout
}

// NewConsumer declares the exchange, the queue and its dead letter pair, and
// binds them for every routing key.
func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		closeAll(nil, conn)
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupTopology(channel, config); err != nil {
		closeAll(channel, conn)
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
	)

	timeout := config.ProcessTimeout
	if timeout <= 0 {
		timeout = defaultProcessTimeout
	}

	return &Consumer{
		conn:           conn,
		channel:        channel,
		queueName:      config.QueueName,
		serviceName:    config.ServiceName,
		processTimeout: timeout,
	}, nil
}

func setupTopology(ch *amqp.Channel, config ConsumerConfig) error {
	prefetch := config.PrefetchCount
	if prefetch == 0 {
		prefetch = defaultPrefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopic(ch, config.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	dlxName := config.Exchange + ".dlx"
	if err := declareTopic(ch, dlxName); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	queue, err := ch.QueueDeclare(config.QueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlxName,
	})
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	dlqName := config.QueueName + ".dlq"
	if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, routingKey := range config.RoutingKeys {
		if err := ch.QueueBind(dlqName, routingKey, dlxName, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := ch.QueueBind(queue.Name, routingKey, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}
	return nil
}

// Consume blocks until ctx is done or the broker closes the deliveries.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // manual ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.queueName))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Consumer context cancelled, stopping...")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				zap.L().Warn("Message channel closed")
				return ErrDeliveriesClosed
			}
			c.handleMessage(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers["x-trace-id"].(string)
	service, _ := msg.Headers["x-service"].(string)

	logger := zap.L().With(
		zap.String("queue", c.queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("sourceService", service),
	)
	logger.Info("Received message")

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("Failed to unmarshal event", zap.Error(err))
		// Malformed messages go to the DLQ.
		if err := msg.Nack(false, false); err != nil {
			logger.Error("Failed to reject message", zap.Error(err))
		}
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		logger.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("Failed to reject message", zap.Error(err))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to acknowledge message", zap.Error(err))
		return
	}
	logger.Info("Successfully processed event", zap.String("event", event.Event))
}

func (c *Consumer) Close() error {
	closeAll(c.channel, nil)
	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the durable topic exchange for domain events.
	ExchangeName = "moodscope.domain.events"
	// DefaultQueueName is the queue the worker consumes from.
	DefaultQueueName = "moodscope.worker"
)

// amqpSession is a connection with one channel and a declared exchange.
type amqpSession struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func openSession(url, exchange string) (*amqpSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &amqpSession{conn: conn, channel: ch, exchange: exchange}, nil
}

func (s *amqpSession) close() error {
	var errs []error
	if s.channel != nil {
		if err := s.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RabbitMQPublisher publishes persistent JSON messages to the topic exchange.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	session *amqpSession
	logger  *slog.Logger
}

// NewRabbitMQPublisher dials url and declares ExchangeName.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := openSession(url, ExchangeName)
	if err != nil {
		return nil, err
	}
	logger.Info("rabbitmq publisher connected", "exchange", ExchangeName)
	return &RabbitMQPublisher{session: session, logger: logger}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.session.channel.PublishWithContext(ctx, p.session.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.DebugContext(ctx, "event published", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.close()
}

// RabbitMQConsumerConfig configures a RabbitMQConsumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	Logger    *slog.Logger
}

// RabbitMQConsumer feeds a durable queue bound to the exchange into a Registry.
type RabbitMQConsumer struct {
	mu       sync.Mutex
	session  *amqpSession
	queue    string
	registry *Registry
	logger   *slog.Logger
	done     chan struct{}
	running  bool
}

// NewRabbitMQConsumer dials the broker and declares the queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *Registry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}

	session, err := openSession(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	if _, err := session.channel.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = session.close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.QueueName, err)
	}

	return &RabbitMQConsumer{
		session:  session,
		queue:    cfg.QueueName,
		registry: registry,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// RegisterConsumer subscribes consumer and binds its routing keys to the queue.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) error {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range consumer.EventTypes() {
		if err := c.session.channel.QueueBind(c.queue, key, c.session.exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", c.queue, key, err)
		}
	}
	return nil
}

// Start consumes until ctx is cancelled or Close is called. Failed messages
// are requeued; undecodable ones are acknowledged and dropped.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.session.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := c.session.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	c.logger.Info("consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.settle(ctx, d)
		}
	}
}

func (c *RabbitMQConsumer) settle(ctx context.Context, d amqp.Delivery) {
	err := c.registry.dispatchBody(ctx, d.RoutingKey, d.Body)
	switch {
	case err == nil:
		err = d.Ack(false)
	case errors.Is(err, errUndecodable):
		c.logger.ErrorContext(ctx, "dropping undecodable event", "routing_key", d.RoutingKey, "error", err)
		err = d.Ack(false)
	default:
		c.logger.WarnContext(ctx, "event handling failed, requeueing", "routing_key", d.RoutingKey, "error", err)
		err = d.Nack(false, true)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "settle delivery", "routing_key", d.RoutingKey, "error", err)
	}
}

// Close stops Start and closes the broker connection.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		close(c.done)
		c.running = false
	}
	return c.session.close()
}

package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finproject/internal/core"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Client publishes transaction change events to a durable direct exchange.
// A broken connection is redialed lazily on the next publish; repeated
// failures open a circuit so a dead broker does not slow every request.
type Client struct {
	url          string
	exchangeName string
	queueName    string
	logger       *slog.Logger
	dialTimeout  time.Duration

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger,
		dialTimeout:  publishTimeout,
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if err := client.connectLocked(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) connectLocked() error {
	// Redials happen on the publish path under c.mu, so they get the publish
	// budget rather than the library's 30s default.
	timeout := c.dialTimeout
	if timeout <= 0 {
		timeout = publishTimeout
	}
	conn, err := amqp091.DialConfig(c.url, amqp091.Config{Dial: amqp091.DefaultDial(timeout)})
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name, as usual for a direct exchange.
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish implements the service's event publisher for added and removed records.
func (c *Client) Publish(ctx context.Context, kind EventKind, tx core.Transaction) error {
	return c.PublishTransactionEvent(ctx, NewTransactionEvent(kind, tx))
}

// PublishTransactionEvent sends ev as a persistent JSON message.
func (c *Client) PublishTransactionEvent(ctx context.Context, ev *TransactionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish %s: %w", ev.Kind, ErrCircuitOpen)
	}

	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := c.publish(ctx, body); err != nil {
		c.recordFailure()
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	c.recordSuccess()

	c.logger.DebugContext(ctx, "Published transaction event",
		"kind", ev.Kind,
		"id", ev.ID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connectLocked(); err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "Reconnected to AMQP broker", "exchange", c.exchangeName)
	}

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil && isConnectionError(err) {
		// Drop the broken channel so the next publish redials.
		c.closeLocked()
	}
	return err
}

func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		c.mu.Lock()
		last := c.lastFailure
		c.mu.Unlock()
		if time.Since(last) > openTimeout {
			atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()

	n := atomic.AddInt64(&c.failureCount, 1)
	if n >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		if atomic.SwapInt32(&c.state, StateOpen) != StateOpen {
			c.logger.Warn("AMQP circuit breaker opened", "failures", n, "retry_after", openTimeout)
		}
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) closeLocked() error {
	var err error
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

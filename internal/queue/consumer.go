package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPoison marks a delivery whose content can never be processed, such as a
// payload that fails to decode. Poison deliveries are acked and dropped.
var ErrPoison = errors.New("poison message")

// ConsumerSpec defines one supervised job consumer.
type ConsumerSpec struct {
	Name        string
	Queue       string
	BindingKey  string
	Prefetch    int // 0 => client default
	MaxAttempts int // 0 => retry without limit

	Handle func(ctx context.Context, d amqp.Delivery) error
}

// JSONHandler adapts a typed handler to the delivery interface. A body that
// does not decode into T is reported as ErrPoison.
func JSONHandler[T any](h func(context.Context, T) error) func(context.Context, amqp.Delivery) error {
	return func(ctx context.Context, d amqp.Delivery) error {
		var v T
		if err := json.Unmarshal(d.Body, &v); err != nil {
			return ErrPoison
		}
		return h(ctx, v)
	}
}

// RunWithConsumers starts every spec and supervises them until ctx is
// cancelled. Consumers whose channel closes are restarted; a closed
// connection triggers a reconnect with doubling backoff.
func (c *Client) RunWithConsumers(ctx context.Context, specs ...ConsumerSpec) error {
	c.consumerClosed = make(chan string, len(specs)*2)
	c.consumerSpecs = make(map[string]ConsumerSpec, len(specs))

	for _, s := range specs {
		c.consumerSpecs[s.Name] = s
		if err := c.startConsumer(ctx, s); err != nil {
			return fmt.Errorf("start consumer %s: %w", s.Name, err)
		}
	}

	connClosed := c.conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case name := <-c.consumerClosed:
			if s, ok := c.consumerSpecs[name]; ok {
				if err := c.startConsumer(ctx, s); err != nil {
					c.logger.Error("consumer restart failed", slog.String("name", name), slog.Any("error", err))
				}
			}

		case amqpErr, ok := <-connClosed:
			if !ok {
				amqpErr = &amqp.Error{Reason: "connection closed"}
			}
			c.logger.Error("rabbitmq connection closed, reconnecting", slog.Any("error", amqpErr))

			backoff := time.Second
			for {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := c.reconnect(); err != nil {
					c.logger.Error("reconnect failed", slog.Any("error", err), slog.Duration("retry_in", backoff))
					time.Sleep(backoff)
					if backoff < 30*time.Second {
						backoff *= 2
					}
					continue
				}
				for _, s := range c.consumerSpecs {
					if err := c.startConsumer(ctx, s); err != nil {
						c.logger.Error("consumer restart after reconnect failed", slog.String("name", s.Name), slog.Any("error", err))
					}
				}
				connClosed = c.conn.NotifyClose(make(chan *amqp.Error, 1))
				break
			}
		}
	}
}

// startConsumer declares the per-queue topology and runs the delivery loop.
func (c *Client) startConsumer(ctx context.Context, spec ConsumerSpec) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}

	prefetch := spec.Prefetch
	if prefetch <= 0 {
		prefetch = c.cfg.Prefetch
		if prefetch <= 0 {
			prefetch = 1
		}
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return err
	}

	if err := c.declareJobTopology(ch, spec); err != nil {
		_ = ch.Close()
		return err
	}

	deliveries, err := ch.Consume(spec.Queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return err
	}

	chanClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	c.consumerWG.Add(1)
	go func() {
		defer c.consumerWG.Done()
		for {
			select {
			case <-ctx.Done():
				_ = ch.Close()
				return

			case <-chanClosed:
				select {
				case c.consumerClosed <- spec.Name:
				default:
				}
				_ = ch.Close()
				return

			case d, ok := <-deliveries:
				if !ok {
					_ = ch.Close()
					return
				}
				c.handleDelivery(ctx, spec, d)
			}
		}
	}()

	c.logger.Info("consumer started",
		slog.String("name", spec.Name),
		slog.String("queue", spec.Queue),
		slog.Int("prefetch", prefetch))
	return nil
}

func (c *Client) handleDelivery(ctx context.Context, spec ConsumerSpec, d amqp.Delivery) {
	if spec.MaxAttempts > 0 && deathCount(d, spec.Queue) >= spec.MaxAttempts {
		c.logger.Error("dropping delivery after max attempts",
			slog.String("queue", spec.Queue),
			slog.Int("max_attempts", spec.MaxAttempts))
		_ = d.Ack(false)
		return
	}

	err := spec.Handle(ctx, d)
	switch {
	case errors.Is(err, ErrPoison):
		c.logger.Warn("dropping poison delivery", slog.String("queue", spec.Queue))
		_ = d.Ack(false)

	case err != nil:
		c.logger.Warn("delivery failed, scheduling retry",
			slog.String("queue", spec.Queue),
			slog.Any("error", err))
		_ = d.Nack(false, false) // dead-letter into the retry queue

	default:
		_ = d.Ack(false)
	}
}

// declareJobTopology declares the work queue plus its retry stage. The work
// queue dead-letters into <queue>.retry, which holds messages for the
// configured delay and then dead-letters them back to the work queue.
func (c *Client) declareJobTopology(ch *amqp.Channel, spec ConsumerSpec) error {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	retryExchange := spec.Queue + ".retry"

	workArgs := amqp.Table{
		"x-dead-letter-exchange": retryExchange,
	}
	if _, err := ch.QueueDeclare(spec.Queue, true, false, false, false, workArgs); err != nil {
		return err
	}
	if err := ch.QueueBind(spec.Queue, spec.BindingKey, c.cfg.Exchange, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(retryExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	retryArgs := amqp.Table{
		"x-message-ttl":             int32(c.cfg.RetryBackoff() / time.Millisecond),
		"x-dead-letter-exchange":    c.cfg.Exchange,
		"x-dead-letter-routing-key": spec.BindingKey,
	}
	if _, err := ch.QueueDeclare(retryExchange, true, false, false, false, retryArgs); err != nil {
		return err
	}
	return ch.QueueBind(retryExchange, "", retryExchange, false, nil)
}

// reconnect re-dials the broker and replaces the connection and publisher
// channel.
func (c *Client) reconnect() error {
	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}

	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	c.pubMu.Lock()
	old := c.pub
	c.conn = conn
	c.pub = ch
	c.pubMu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	c.logger.Info("rabbitmq reconnected")
	return nil
}

// deathCount returns how many times a delivery has been dead-lettered from
// the given queue, read from the broker-maintained x-death header.
func deathCount(d amqp.Delivery, queue string) int {
	raw, ok := d.Headers["x-death"]
	if !ok {
		return 0
	}
	list, ok := raw.([]any)
	if !ok {
		return 0
	}
	for _, entry := range list {
		if m, ok := entry.(amqp.Table); ok {
			if q, _ := m["queue"].(string); q == queue {
				if n, ok := m["count"].(int64); ok {
					return int(n)
				}
			}
		}
	}
	return 0
}

// Package queue provides RabbitMQ publishing and supervised consumption for
// background jobs. Each job is routed through a single topic exchange to a
// durable queue; failed deliveries dead-letter into a per-queue retry queue
// whose TTL returns them to the work queue.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dojotek/chatbot/internal/config"
)

// Client owns the AMQP connection, a shared publisher channel, and the
// consumer supervision state.
type Client struct {
	cfg    config.RabbitMQConfig
	logger *slog.Logger

	conn *amqp.Connection

	pubMu sync.Mutex
	pub   *amqp.Channel

	consumerWG     sync.WaitGroup
	consumerClosed chan string
	consumerSpecs  map[string]ConsumerSpec
}

// NewClient dials RabbitMQ and declares the application exchange.
func NewClient(cfg config.RabbitMQConfig, log *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		logger: log.With(slog.String("service", "queue")),
		conn:   conn,
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", cfg.Exchange, err)
	}
	c.pub = ch

	c.logger.Info("rabbitmq client ready", slog.String("exchange", cfg.Exchange))
	return c, nil
}

// PublishJob publishes payload as a persistent JSON message routed by job name.
func (c *Client) PublishJob(ctx context.Context, job string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", job, err)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	err = c.pub.PublishWithContext(ctx, c.cfg.Exchange, job, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Type:         job,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", job, err)
	}
	return nil
}

// Close stops consumers and releases the connection.
func (c *Client) Close() {
	done := make(chan struct{})
	go func() {
		c.consumerWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}

	c.pubMu.Lock()
	if c.pub != nil {
		_ = c.pub.Close()
	}
	c.pubMu.Unlock()

	if c.conn != nil {
		_ = c.conn.Close()
	}
}

package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer consumes copy generation jobs from a RabbitMQ queue
type Consumer struct {
	conn      *Connection
	queueName string
	handler   JobHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// JobHandler is a function that processes a copy job
type JobHandler func(job *CopyJob) error

// NewConsumer creates a new consumer instance
func NewConsumer(conn *Connection, queueName string, handler JobHandler) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	// Declare queue (same settings as publisher: durable, non-auto-delete)
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start starts consuming jobs from the queue
func (c *Consumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	// Process one job at a time
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual acknowledgement)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				logrus.Info("consumer stopping")
				return
			case d, ok := <-msgs:
				if !ok {
					logrus.Warn("delivery channel closed")
					return
				}

				if err := c.processDelivery(d); err != nil {
					logrus.WithError(err).Error("failed to process copy job")
					// Requeue for retry
					d.Nack(false, true)
				} else {
					d.Ack(false)
				}
			}
		}
	}()

	logrus.WithField("queue", c.queueName).Info("consumer started")
	return nil
}

// Stop stops consuming jobs gracefully
func (c *Consumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan
	return nil
}

// processDelivery decodes and handles a single delivery
func (c *Consumer) processDelivery(d amqp.Delivery) error {
	var job CopyJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		return fmt.Errorf("failed to unmarshal copy job: %w", err)
	}

	if err := c.handler(&job); err != nil {
		return fmt.Errorf("handler failed: %w", err)
	}

	return nil
}

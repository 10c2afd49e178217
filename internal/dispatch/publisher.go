package dispatch

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

// QueueName is the durable queue shared with the notifier worker.
const QueueName = "notification_queue"

type AMQPPublisher struct {
	channel *amqp.Channel
	timeout time.Duration
}

func NewAMQPPublisher(channel *amqp.Channel, timeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{
		channel: channel,
		timeout: timeout,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg domain.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

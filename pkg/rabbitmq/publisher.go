package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"video-edit-worker/config"
	"video-edit-worker/dto"
)

// Publisher dispatches task messages. The job id doubles as the message id
// so the broker-side correlation key matches the job row.
type Publisher struct {
	channel *amqp.Channel
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, cfg.Kind, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{channel: ch}, nil
}

func (p *Publisher) PublishTask(ctx context.Context, message dto.TaskMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal task message: %w", err)
	}

	return p.channel.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    message.JobId.String(),
			Timestamp:    time.Now().UTC(),
		},
	)
}

package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"video-edit-worker/dto"
	"video-edit-worker/service"
)

type ServiceDependencies struct {
	Executor service.Executor
}

// TaskHandler decodes one dispatch message and runs it to a terminal job
// state. Errors are returned for logging only; the job row is already
// FAILED by the time an error surfaces here.
func TaskHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var task dto.TaskMessage
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal task message")
		return err
	}

	return deps.Executor.Process(ctx, task)
}

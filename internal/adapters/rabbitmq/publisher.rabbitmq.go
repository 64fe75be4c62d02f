package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mopentelemetry"
	"github.com/fernbank/core/common/mrabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventPublisherRabbitMQRepository is a RabbitMQ-backed ports.EventPublisher
// publishing domain events for downstream consumers (SPEC_FULL.md §11). It is
// wired into command.UseCase, but no Ledger/NEFT/onboarding flow calls Publish.
type EventPublisherRabbitMQRepository struct {
	connection *mrabbitmq.RabbitMQConnection
}

// NewEventPublisherRabbitMQRepository returns a new EventPublisherRabbitMQRepository.
func NewEventPublisherRabbitMQRepository(rc *mrabbitmq.RabbitMQConnection) *EventPublisherRabbitMQRepository {
	return &EventPublisherRabbitMQRepository{connection: rc}
}

// Publish marshals payload as JSON and publishes it to topic as a durable,
// persistent message.
func (r *EventPublisherRabbitMQRepository) Publish(ctx context.Context, topic string, payload any) error {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "rabbitmq.publisher.publish")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to marshal event payload", err)
		return err
	}

	ch, err := r.connection.GetChannel(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get rabbitmq channel", err)
		return err
	}

	err = ch.Publish(
		r.connection.Producer,
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to publish event", err)
		logger.Errorf("failed to publish event to topic %s: %s", topic, err)

		return err
	}

	logger.Infof("published event to topic %s", topic)

	return nil
}

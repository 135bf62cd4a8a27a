package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/port"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type userEventPayload struct {
	UserID    string         `json:"user_id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Region    string         `json:"region"`
	Status    string         `json:"status"`
	RoleName  string         `json:"role_name"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// PublishUserAdded publishes uam.user.added events.
func (p *EventPublisher) PublishUserAdded(ctx context.Context, event domain.UserAddedEvent) error {
	payload := userEventPayload{
		UserID:    event.UserID,
		Email:     event.Email,
		FullName:  event.FullName,
		Region:    event.Region,
		Status:    event.Status,
		RoleName:  event.RoleName,
		Timestamp: event.RegisteredAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "uam.user.added", event.UserID, event.RegisteredAt, payload)
}

// PublishUserUpdated publishes uam.user.updated events.
func (p *EventPublisher) PublishUserUpdated(ctx context.Context, event domain.UserUpdatedEvent) error {
	payload := userEventPayload{
		UserID:    event.UserID,
		Email:     event.Email,
		FullName:  event.FullName,
		Region:    event.Region,
		Status:    event.Status,
		RoleName:  event.RoleName,
		Timestamp: event.UpdatedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "uam.user.updated", event.UserID, event.UpdatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)

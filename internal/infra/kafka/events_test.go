package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/core/domain"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func TestPublishUserAdded(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "uam",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "user-access-service",
		Env:  "test",
	}, zaptest.NewLogger(t))

	registeredAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	event := domain.UserAddedEvent{
		EventID:      "event-123",
		UserID:       "user-789",
		Email:        "amina@example.com",
		FullName:     "Amina Farouk",
		Region:       "Egypt",
		Status:       "unconfirmed",
		RoleName:     "User",
		RegisteredAt: registeredAt,
	}

	if err := publisher.PublishUserAdded(context.Background(), event); err != nil {
		t.Fatalf("PublishUserAdded returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "uam.user.added" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "uam.user.added" {
			t.Fatalf("unexpected event_type: %v", got)
		}

		if got := envelope["event_id"]; got != event.EventID {
			t.Fatalf("unexpected event_id: %v", got)
		}

		if got := envelope["user_id"]; got != event.UserID {
			t.Fatalf("unexpected user_id: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["email"]; got != event.Email {
			t.Fatalf("unexpected email: %v", got)
		}

		if got := payload["role_name"]; got != event.RoleName {
			t.Fatalf("unexpected role_name: %v", got)
		}

		metadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("metadata not a map: %T", envelope["metadata"])
		}

		if got := metadata["service"]; got != "user-access-service" {
			t.Fatalf("unexpected metadata.service: %v", got)
		}
	default:
		t.Fatal("no message produced")
	}
}

func TestPublishUserUpdated_TopicPrefixNotDoubled(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "uam",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	publisher := NewEventPublisher(producer, config.AppSettings{Name: "user-access-service", Env: "test"}, zaptest.NewLogger(t))

	event := domain.UserUpdatedEvent{
		EventID:   "event-456",
		UserID:    "user-1",
		Email:     "amina@example.com",
		FullName:  "Amina Farouk",
		Status:    "active",
		RoleName:  "Editor",
		UpdatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	if err := publisher.PublishUserUpdated(context.Background(), event); err != nil {
		t.Fatalf("PublishUserUpdated returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "uam.user.updated" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}
	default:
		t.Fatal("no message produced")
	}
}

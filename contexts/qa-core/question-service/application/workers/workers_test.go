package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quorum/contexts/qa-core/question-service/adapters/memory"
	"quorum/contexts/qa-core/question-service/ports"
	"quorum/internal/shared/events"
)

type capturingPublisher struct {
	published []events.Envelope
	topics    []string
	failAfter int
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	if p.failAfter > 0 && len(p.published) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

type capturingMail struct {
	sent []ports.MailMessage
	err  error
}

func (m *capturingMail) Send(_ context.Context, message ports.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, message)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string, payload any) events.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("payload marshal failed: %v", err)
	}
	envelope := events.Envelope{
		EventID:       eventID,
		EventType:     "question.created",
		SourceService: "question-service",
		OccurredAt:    time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		PartitionKey:  "question-1",
		SchemaVersion: 1,
		Data:          data,
	}
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
	return envelope
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "event-1", map[string]string{"question_id": "question-1"})
	appendEnvelope(t, store, "event-2", map[string]string{"question_id": "question-1"})

	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected two published events, got %d", len(publisher.published))
	}
	for _, topic := range publisher.topics {
		if topic != "question.created" {
			t.Fatalf("unexpected topic %q", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected all rows marked published, got %d pending", len(pending))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "event-1", map[string]string{"question_id": "question-1"})
	appendEnvelope(t, store, "event-2", map[string]string{"question_id": "question-1"})

	publisher := &capturingPublisher{failAfter: 1}
	relay := OutboxRelay{Outbox: store, Publisher: publisher}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay failure")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected the failed row to stay pending, got %d", len(pending))
	}
}

func TestNotificationConsumerSendsMail(t *testing.T) {
	mail := &capturingMail{}
	consumer := NotificationConsumer{
		Mail:       mail,
		Recipients: []string{"team@example.com"},
	}

	data, _ := json.Marshal(map[string]string{
		"question_id": "question-1",
		"title":       "Favorite color?",
		"ending_date": "2026-04-01T00:00:00Z",
	})
	err := consumer.handle(context.Background(), events.Envelope{
		EventID:   "event-1",
		EventType: "question.created",
		Data:      data,
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mail.sent))
	}
	if mail.sent[0].Subject != "New question: Favorite color?" {
		t.Fatalf("unexpected subject %q", mail.sent[0].Subject)
	}
}

func TestNotificationConsumerSwallowsDeliveryFailure(t *testing.T) {
	mail := &capturingMail{err: errors.New("smtp down")}
	consumer := NotificationConsumer{
		Mail:       mail,
		Recipients: []string{"team@example.com"},
	}

	data, _ := json.Marshal(map[string]string{"question_id": "question-1"})
	if err := consumer.handle(context.Background(), events.Envelope{Data: data}); err != nil {
		t.Fatalf("expected delivery failure to be swallowed, got %v", err)
	}
}

func TestNotificationConsumerSkipsWithoutRecipients(t *testing.T) {
	mail := &capturingMail{}
	consumer := NotificationConsumer{Mail: mail}

	data, _ := json.Marshal(map[string]string{"question_id": "question-1"})
	if err := consumer.handle(context.Background(), events.Envelope{Data: data}); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(mail.sent) != 0 {
		t.Fatalf("expected no mail without recipients, got %d", len(mail.sent))
	}
}

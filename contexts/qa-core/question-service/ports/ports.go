package ports

import (
	"context"
	"time"

	"quorum/contexts/qa-core/question-service/domain/entities"
	"quorum/internal/shared/events"
)

type QuestionRepository interface {
	// SaveQuestion persists the question and all of its answers atomically.
	SaveQuestion(ctx context.Context, question entities.Question) error
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	ListQuestions(ctx context.Context) ([]entities.Question, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

type MailMessage struct {
	To      []string
	Subject string
	Body    string
}

type MailSender interface {
	Send(ctx context.Context, message MailMessage) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

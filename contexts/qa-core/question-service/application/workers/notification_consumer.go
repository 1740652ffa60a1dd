package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	application "quorum/contexts/qa-core/question-service/application"
	"quorum/contexts/qa-core/question-service/ports"
	"quorum/internal/shared/events"
)

// NotificationConsumer mails subscribers when a question is created. Delivery
// is fire-and-forget: any failure is logged and swallowed so the bus never
// redelivers into a retry storm and the producing write is never affected.
type NotificationConsumer struct {
	Subscriber    ports.EventSubscriber
	Mail          ports.MailSender
	Recipients    []string
	ConsumerGroup string
	Logger        *slog.Logger
}

type questionCreatedPayload struct {
	QuestionID string `json:"question_id"`
	Title      string `json:"title"`
	EndingDate string `json:"ending_date"`
}

func (c NotificationConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = "question-notifications-cg"
	}
	return c.Subscriber.Subscribe(ctx, "question.created", group, c.handle)
}

func (c NotificationConsumer) handle(ctx context.Context, event events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload questionCreatedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("question created payload decode failed",
			"event", "question_notification_decode_failed",
			"module", "qa-core/question-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	if len(c.Recipients) == 0 {
		logger.Debug("question notification skipped without recipients",
			"event", "question_notification_skipped",
			"module", "qa-core/question-service",
			"layer", "worker",
			"question_id", payload.QuestionID,
		)
		return nil
	}

	message := ports.MailMessage{
		To:      c.Recipients,
		Subject: fmt.Sprintf("New question: %s", payload.Title),
		Body: fmt.Sprintf(
			"A new question %q is open for votes until %s.",
			payload.Title, payload.EndingDate,
		),
	}
	if err := c.Mail.Send(ctx, message); err != nil {
		logger.Error("question notification delivery failed",
			"event", "question_notification_send_failed",
			"module", "qa-core/question-service",
			"layer", "worker",
			"question_id", payload.QuestionID,
			"error", err.Error(),
		)
		return nil
	}

	logger.Info("question notification delivered",
		"event", "question_notification_sent",
		"module", "qa-core/question-service",
		"layer", "worker",
		"question_id", payload.QuestionID,
		"recipient_count", len(c.Recipients),
	)
	return nil
}

package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quorum/contexts/qa-core/question-service/application"
	"quorum/contexts/qa-core/question-service/domain/entities"
	domainerrors "quorum/contexts/qa-core/question-service/domain/errors"
	"quorum/contexts/qa-core/question-service/ports"
)

// AnswerInput is one answer option as submitted by the author.
type AnswerInput struct {
	Title       string
	Description string
}

// CreateQuestionCommand is the write-model input for question creation.
type CreateQuestionCommand struct {
	Title       string
	Description string
	EndingDate  time.Time
	Answers     []AnswerInput
}

// QuestionUseCase orchestrates question writes: validated atomic persistence
// of a question with its answers, followed by a post-commit question.created
// outbox event for notification delivery.
type QuestionUseCase struct {
	Questions ports.QuestionRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CreateQuestion persists the question and its answers in one transaction.
// The outbox append runs after the write and its failure is logged but never
// surfaced: notification delivery must not affect the write outcome.
func (uc QuestionUseCase) CreateQuestion(ctx context.Context, cmd CreateQuestionCommand) (entities.Question, error) {
	logger := application.ResolveLogger(uc.Logger)
	title := strings.TrimSpace(cmd.Title)

	logger.Info("question create processing started",
		"event", "question_create_started",
		"module", "qa-core/question-service",
		"layer", "application",
		"title", title,
		"answer_count", len(cmd.Answers),
	)
	if title == "" {
		return entities.Question{}, domainerrors.ErrInvalidQuestionInput
	}
	if len(cmd.Answers) == 0 {
		logger.Warn("question create rejected without answers",
			"event", "question_create_answers_missing",
			"module", "qa-core/question-service",
			"layer", "application",
			"title", title,
		)
		return entities.Question{}, domainerrors.ErrAnswersRequired
	}

	now := uc.now()
	questionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Question{}, err
	}
	question := entities.Question{
		QuestionID:  questionID,
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		EndingDate:  cmd.EndingDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for index, answer := range cmd.Answers {
		answerID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Question{}, err
		}
		question.Answers = append(question.Answers, entities.Answer{
			AnswerID:    answerID,
			QuestionID:  questionID,
			Title:       strings.TrimSpace(answer.Title),
			Description: strings.TrimSpace(answer.Description),
			Position:    index,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := uc.Questions.SaveQuestion(ctx, question); err != nil {
		return entities.Question{}, err
	}

	if err := uc.appendCreatedEvent(ctx, question, now); err != nil {
		logger.Warn("question created event append failed; notification skipped",
			"event", "question_created_event_append_failed",
			"module", "qa-core/question-service",
			"layer", "application",
			"question_id", question.QuestionID,
			"error", err.Error(),
		)
	}

	logger.Info("question created",
		"event", "question_created",
		"module", "qa-core/question-service",
		"layer", "application",
		"question_id", question.QuestionID,
		"answer_count", len(question.Answers),
	)
	return question, nil
}

func (uc QuestionUseCase) appendCreatedEvent(ctx context.Context, question entities.Question, occurredAt time.Time) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newQuestionCreatedEnvelope(eventID, question, occurredAt)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc QuestionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

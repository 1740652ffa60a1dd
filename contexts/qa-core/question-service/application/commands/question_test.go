package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"quorum/contexts/qa-core/question-service/adapters/memory"
	domainerrors "quorum/contexts/qa-core/question-service/domain/errors"
	"quorum/internal/shared/events"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID(context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type failingOutbox struct{}

func (failingOutbox) AppendOutbox(context.Context, events.Envelope) error {
	return errors.New("outbox unavailable")
}

func newQuestionFixture() (QuestionUseCase, *memory.Store) {
	store := memory.NewStore(nil)
	useCase := QuestionUseCase{
		Questions: store,
		Outbox:    store,
		Clock:     fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGen:     &sequenceIDs{},
	}
	return useCase, store
}

func TestCreateQuestionPersistsOrderedAnswers(t *testing.T) {
	useCase, store := newQuestionFixture()

	question, err := useCase.CreateQuestion(context.Background(), CreateQuestionCommand{
		Title:      "  Favorite color?  ",
		EndingDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Answers: []AnswerInput{
			{Title: "Red"},
			{Title: "Blue"},
			{Title: "Green"},
		},
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	if question.Title != "Favorite color?" {
		t.Fatalf("expected trimmed title, got %q", question.Title)
	}
	if len(question.Answers) != 3 {
		t.Fatalf("expected three answers, got %d", len(question.Answers))
	}
	for index, answer := range question.Answers {
		if answer.Position != index {
			t.Fatalf("expected position %d, got %d", index, answer.Position)
		}
		if answer.QuestionID != question.QuestionID {
			t.Fatalf("answer %s not linked to question", answer.AnswerID)
		}
	}

	stored, err := store.GetQuestion(context.Background(), question.QuestionID)
	if err != nil {
		t.Fatalf("stored question lookup failed: %v", err)
	}
	if len(stored.Answers) != 3 {
		t.Fatalf("expected three stored answers, got %d", len(stored.Answers))
	}
}

func TestCreateQuestionAppendsCreatedEvent(t *testing.T) {
	useCase, store := newQuestionFixture()

	question, err := useCase.CreateQuestion(context.Background(), CreateQuestionCommand{
		Title:      "Favorite color?",
		EndingDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Answers:    []AnswerInput{{Title: "Red"}},
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one outbox row, got %d", len(pending))
	}
	if pending[0].EventType != "question.created" {
		t.Fatalf("unexpected event type %q", pending[0].EventType)
	}
	if pending[0].PartitionKey != question.QuestionID {
		t.Fatalf("expected partition key %q, got %q", question.QuestionID, pending[0].PartitionKey)
	}

	var envelope events.Envelope
	if err := json.Unmarshal(pending[0].Payload, &envelope); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	var payload struct {
		QuestionID string `json:"question_id"`
		Title      string `json:"title"`
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		t.Fatalf("event data decode failed: %v", err)
	}
	if payload.QuestionID != question.QuestionID || payload.Title != "Favorite color?" {
		t.Fatalf("unexpected event payload: %+v", payload)
	}
}

func TestCreateQuestionRequiresAnswers(t *testing.T) {
	useCase, store := newQuestionFixture()

	_, err := useCase.CreateQuestion(context.Background(), CreateQuestionCommand{
		Title: "Favorite color?",
	})
	if !errors.Is(err, domainerrors.ErrAnswersRequired) {
		t.Fatalf("expected answers required error, got %v", err)
	}

	questions, err := store.ListQuestions(context.Background())
	if err != nil {
		t.Fatalf("list questions failed: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected nothing persisted, got %d questions", len(questions))
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox, got %d rows", len(pending))
	}
}

func TestCreateQuestionRequiresTitle(t *testing.T) {
	useCase, _ := newQuestionFixture()

	_, err := useCase.CreateQuestion(context.Background(), CreateQuestionCommand{
		Title:   "   ",
		Answers: []AnswerInput{{Title: "Red"}},
	})
	if !errors.Is(err, domainerrors.ErrInvalidQuestionInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestCreateQuestionSucceedsWhenOutboxFails(t *testing.T) {
	useCase, store := newQuestionFixture()
	useCase.Outbox = failingOutbox{}

	question, err := useCase.CreateQuestion(context.Background(), CreateQuestionCommand{
		Title:   "Favorite color?",
		Answers: []AnswerInput{{Title: "Red"}},
	})
	if err != nil {
		t.Fatalf("expected create to succeed despite outbox failure, got %v", err)
	}
	if _, err := store.GetQuestion(context.Background(), question.QuestionID); err != nil {
		t.Fatalf("question was not persisted: %v", err)
	}
}

package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"quorum/contexts/qa-core/question-service/domain/entities"
	domainerrors "quorum/contexts/qa-core/question-service/domain/errors"
	"quorum/contexts/qa-core/question-service/ports"
	"quorum/internal/shared/events"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type Store struct {
	mu sync.RWMutex

	questions map[string]entities.Question
	outbox    map[string]outboxRecord
}

func NewStore(seed []entities.Question) *Store {
	questions := make(map[string]entities.Question, len(seed))
	for _, question := range seed {
		questions[question.QuestionID] = question
	}
	return &Store{
		questions: questions,
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) SaveQuestion(_ context.Context, question entities.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[strings.TrimSpace(question.QuestionID)] = question
	return nil
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
}

func (s *Store) ListQuestions(_ context.Context) ([]entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Question, 0, len(s.questions))
	for _, question := range s.questions {
		items = append(items, question)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, ok := s.outbox[outboxID]; ok {
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrQuestionNotFound
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.QuestionRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)

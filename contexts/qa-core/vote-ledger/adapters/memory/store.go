package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"quorum/contexts/qa-core/vote-ledger/domain/entities"
	domainerrors "quorum/contexts/qa-core/vote-ledger/domain/errors"
	"quorum/contexts/qa-core/vote-ledger/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	votes   map[string]entities.Vote
	answers map[string]ports.AnswerProjection
}

func NewStore(seed []entities.Vote) *Store {
	votes := make(map[string]entities.Vote, len(seed))
	for _, vote := range seed {
		votes[vote.VoteID] = vote
	}
	return &Store{
		votes:   votes,
		answers: make(map[string]ports.AnswerProjection),
	}
}

func (s *Store) SetAnswer(answer ports.AnswerProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[strings.TrimSpace(answer.AnswerID)] = ports.AnswerProjection{
		AnswerID:   strings.TrimSpace(answer.AnswerID),
		QuestionID: strings.TrimSpace(answer.QuestionID),
	}
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voteID := strings.TrimSpace(vote.VoteID)
	// Mirror the relational (user_id, question_id) uniqueness constraint so
	// in-memory wiring exhibits the same race backstop as Postgres.
	for key, existing := range s.votes {
		if key == voteID {
			continue
		}
		if existing.UserID == vote.UserID && existing.QuestionID == vote.QuestionID {
			return domainerrors.ErrDuplicateQuestionVote
		}
	}
	s.votes[voteID] = vote
	return nil
}

func (s *Store) GetVote(_ context.Context, voteID string) (entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[strings.TrimSpace(voteID)]
	if !ok {
		return entities.Vote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

func (s *Store) GetVoteByUserAndQuestion(
	_ context.Context,
	userID string,
	questionID string,
) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID = strings.TrimSpace(userID)
	questionID = strings.TrimSpace(questionID)
	for _, vote := range s.votes {
		if vote.UserID == userID && vote.QuestionID == questionID {
			return vote, true, nil
		}
	}
	return entities.Vote{}, false, nil
}

func (s *Store) HasVoteByUserAndAnswer(_ context.Context, userID string, answerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID = strings.TrimSpace(userID)
	answerID = strings.TrimSpace(answerID)
	for _, vote := range s.votes {
		if vote.UserID == userID && vote.AnswerID == answerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListVotesByQuestion(_ context.Context, questionID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.QuestionID == strings.TrimSpace(questionID) {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetAnswer(_ context.Context, answerID string) (ports.AnswerProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.answers[strings.TrimSpace(answerID)]
	if !ok {
		return ports.AnswerProjection{}, domainerrors.ErrAnswerNotFound
	}
	return answer, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.VoteRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)

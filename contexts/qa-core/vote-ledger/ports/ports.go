package ports

import (
	"context"
	"time"

	"quorum/contexts/qa-core/vote-ledger/domain/entities"
)

// AnswerProjection is the slice of the question-service's answers table the
// ledger needs to resolve an answer to its owning question.
type AnswerProjection struct {
	AnswerID   string
	QuestionID string
}

type VoteRepository interface {
	SaveVote(ctx context.Context, vote entities.Vote) error
	GetVote(ctx context.Context, voteID string) (entities.Vote, error)
	GetVoteByUserAndQuestion(ctx context.Context, userID string, questionID string) (entities.Vote, bool, error)
	HasVoteByUserAndAnswer(ctx context.Context, userID string, answerID string) (bool, error)
	ListVotesByQuestion(ctx context.Context, questionID string) ([]entities.Vote, error)
	GetAnswer(ctx context.Context, answerID string) (AnswerProjection, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

package queries

import (
	"context"
	"strings"

	"quorum/contexts/qa-core/vote-ledger/domain/entities"
	"quorum/contexts/qa-core/vote-ledger/ports"
)

type VotesUseCase struct {
	Votes ports.VoteRepository
}

// QuestionVotes lists every vote recorded against any answer of the question,
// in creation order.
func (uc VotesUseCase) QuestionVotes(ctx context.Context, questionID string) ([]entities.Vote, error) {
	return uc.Votes.ListVotesByQuestion(ctx, strings.TrimSpace(questionID))
}

package httpadapter

import (
	"context"
	"log/slog"

	"quorum/contexts/qa-core/vote-ledger/application/commands"
	"quorum/contexts/qa-core/vote-ledger/application/queries"
	httptransport "quorum/contexts/qa-core/vote-ledger/transport/http"
)

type Handler struct {
	Votes  commands.VoteUseCase
	Reads  queries.VotesUseCase
	Logger *slog.Logger
}

// CastVoteOutcome carries the transport view of a cast plus the
// created-vs-updated marker the server maps to a status code.
type CastVoteOutcome struct {
	VoteID    string
	AnswerID  string
	WasUpdate bool
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	userID string,
	userName string,
	req httptransport.CastVoteRequest,
) (CastVoteOutcome, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		UserID:   userID,
		UserName: userName,
		AnswerID: req.AnswerID,
	})
	if err != nil {
		return CastVoteOutcome{}, err
	}
	return CastVoteOutcome{
		VoteID:    result.Vote.VoteID,
		AnswerID:  result.Vote.AnswerID,
		WasUpdate: result.WasUpdate,
	}, nil
}

func (h Handler) QuestionVotesHandler(ctx context.Context, questionID string) ([]httptransport.VoteListItem, error) {
	votes, err := h.Reads.QuestionVotes(ctx, questionID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.VoteListItem, 0, len(votes))
	for _, vote := range votes {
		items = append(items, httptransport.VoteListItem{
			VoteID:   vote.VoteID,
			AnswerID: vote.AnswerID,
		})
	}
	return items, nil
}

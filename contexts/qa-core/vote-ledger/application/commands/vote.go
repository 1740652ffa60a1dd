package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quorum/contexts/qa-core/vote-ledger/application"
	"quorum/contexts/qa-core/vote-ledger/domain/entities"
	domainerrors "quorum/contexts/qa-core/vote-ledger/domain/errors"
	"quorum/contexts/qa-core/vote-ledger/ports"
)

// CastVoteCommand is the write-model input for casting or changing a vote.
// Identity is threaded explicitly; the ledger never reads ambient request
// state.
type CastVoteCommand struct {
	UserID   string
	UserName string
	AnswerID string
}

// CastVoteResult returns the final vote state and an update marker that the
// transport layer maps to API semantics (201 created vs 200 updated).
type CastVoteResult struct {
	Vote      entities.Vote
	WasUpdate bool
}

// VoteUseCase orchestrates vote writes while enforcing the ledger invariants:
// at most one vote per (user, answer) and at most one vote per
// (user, question) across all of the question's answers.
type VoteUseCase struct {
	Votes  ports.VoteRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CastVote inserts or updates the caller's vote for the question owning the
// given answer. Exactly one row is written per call. The per-answer duplicate
// check runs before the per-question check so a repeat vote for the identical
// answer reports the answer-scoped violation.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	userName := strings.TrimSpace(cmd.UserName)
	answerID := strings.TrimSpace(cmd.AnswerID)

	logger.Info("vote cast processing started",
		"event", "ledger_vote_cast_started",
		"module", "qa-core/vote-ledger",
		"layer", "application",
		"user_id", userID,
		"answer_id", answerID,
	)
	if userID == "" || userName == "" || answerID == "" {
		logger.Warn("vote cast validation failed",
			"event", "ledger_vote_cast_validation_failed",
			"module", "qa-core/vote-ledger",
			"layer", "application",
			"user_id", userID,
			"answer_id", answerID,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	answer, err := uc.Votes.GetAnswer(ctx, answerID)
	if err != nil {
		return CastVoteResult{}, err
	}

	existing, found, err := uc.Votes.GetVoteByUserAndQuestion(ctx, userID, answer.QuestionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	now := uc.now()

	if found {
		if existing.AnswerID == answerID {
			logger.Warn("vote cast rejected as duplicate",
				"event", "ledger_vote_cast_duplicate",
				"module", "qa-core/vote-ledger",
				"layer", "application",
				"vote_id", existing.VoteID,
				"user_id", userID,
				"answer_id", answerID,
			)
			return CastVoteResult{}, domainerrors.ErrDuplicateAnswerVote
		}

		existing.AnswerID = answerID
		existing.UserName = userName
		existing.UpdatedAt = now
		if err := uc.Votes.SaveVote(ctx, existing); err != nil {
			return CastVoteResult{}, err
		}
		logger.Info("vote updated",
			"event", "ledger_vote_updated",
			"module", "qa-core/vote-ledger",
			"layer", "application",
			"vote_id", existing.VoteID,
			"question_id", existing.QuestionID,
			"answer_id", existing.AnswerID,
			"user_id", existing.UserID,
		)
		return CastVoteResult{Vote: existing, WasUpdate: true}, nil
	}

	// Redundant with the question-scoped lookup above, but evaluated on its
	// own so the answer-scoped violation wins when both could match.
	if taken, err := uc.Votes.HasVoteByUserAndAnswer(ctx, userID, answerID); err != nil {
		return CastVoteResult{}, err
	} else if taken {
		return CastVoteResult{}, domainerrors.ErrDuplicateAnswerVote
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote := entities.Vote{
		VoteID:     voteID,
		AnswerID:   answerID,
		QuestionID: answer.QuestionID,
		UserID:     userID,
		UserName:   userName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// A racing identical request can pass the lookup above and reach the
	// insert; the store's (user_id, question_id) uniqueness constraint is the
	// backstop and surfaces as ErrDuplicateQuestionVote.
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote created",
		"event", "ledger_vote_created",
		"module", "qa-core/vote-ledger",
		"layer", "application",
		"vote_id", vote.VoteID,
		"question_id", vote.QuestionID,
		"answer_id", vote.AnswerID,
		"user_id", vote.UserID,
	)
	return CastVoteResult{Vote: vote}, nil
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

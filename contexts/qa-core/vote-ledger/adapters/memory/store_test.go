package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quorum/contexts/qa-core/vote-ledger/domain/entities"
	domainerrors "quorum/contexts/qa-core/vote-ledger/domain/errors"
	"quorum/contexts/qa-core/vote-ledger/ports"
)

func TestSaveVoteEnforcesOneVotePerQuestion(t *testing.T) {
	store := NewStore([]entities.Vote{{
		VoteID:     "vote-1",
		AnswerID:   "answer-1",
		QuestionID: "question-1",
		UserID:     "user-1",
		UserName:   "Ada",
	}})

	err := store.SaveVote(context.Background(), entities.Vote{
		VoteID:     "vote-2",
		AnswerID:   "answer-2",
		QuestionID: "question-1",
		UserID:     "user-1",
		UserName:   "Ada",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateQuestionVote) {
		t.Fatalf("expected duplicate question error, got %v", err)
	}

	// Rewriting the same row id is an update, not a second vote.
	if err := store.SaveVote(context.Background(), entities.Vote{
		VoteID:     "vote-1",
		AnswerID:   "answer-2",
		QuestionID: "question-1",
		UserID:     "user-1",
		UserName:   "Ada",
	}); err != nil {
		t.Fatalf("in-place update failed: %v", err)
	}
}

func TestGetAnswerUnknownID(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.GetAnswer(context.Background(), "answer-1"); !errors.Is(err, domainerrors.ErrAnswerNotFound) {
		t.Fatalf("expected answer not found, got %v", err)
	}

	store.SetAnswer(ports.AnswerProjection{AnswerID: " answer-1 ", QuestionID: "question-1"})
	answer, err := store.GetAnswer(context.Background(), "answer-1")
	if err != nil {
		t.Fatalf("get answer failed: %v", err)
	}
	if answer.QuestionID != "question-1" {
		t.Fatalf("unexpected projection: %+v", answer)
	}
}

func TestListVotesByQuestionOrdersByCreation(t *testing.T) {
	base := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := NewStore([]entities.Vote{
		{VoteID: "vote-2", QuestionID: "question-1", UserID: "user-2", CreatedAt: base.Add(time.Minute)},
		{VoteID: "vote-1", QuestionID: "question-1", UserID: "user-1", CreatedAt: base},
		{VoteID: "vote-3", QuestionID: "question-other", UserID: "user-3", CreatedAt: base},
	})

	votes, err := store.ListVotesByQuestion(context.Background(), "question-1")
	if err != nil {
		t.Fatalf("list votes failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("expected two votes, got %d", len(votes))
	}
	if votes[0].VoteID != "vote-1" || votes[1].VoteID != "vote-2" {
		t.Fatalf("unexpected order: %s, %s", votes[0].VoteID, votes[1].VoteID)
	}
}

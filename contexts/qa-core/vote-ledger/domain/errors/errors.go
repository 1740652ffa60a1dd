package errors

import "errors"

var (
	ErrInvalidVoteInput      = errors.New("invalid vote input")
	ErrVoteNotFound          = errors.New("vote not found")
	ErrAnswerNotFound        = errors.New("answer not found")
	ErrDuplicateAnswerVote   = errors.New("should vote for an answer once")
	ErrDuplicateQuestionVote = errors.New("should vote for a question once")
)

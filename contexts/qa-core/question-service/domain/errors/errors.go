package errors

import "errors"

var (
	ErrInvalidQuestionInput = errors.New("invalid question input")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAnswersRequired      = errors.New("Answers should be filled")
)

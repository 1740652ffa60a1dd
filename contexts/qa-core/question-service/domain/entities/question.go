package entities

import "time"

type Question struct {
	QuestionID  string
	Title       string
	Description string
	EndingDate  time.Time
	Answers     []Answer
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Answer is owned by its question; Position preserves the submitted order.
type Answer struct {
	AnswerID    string
	QuestionID  string
	Title       string
	Description string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

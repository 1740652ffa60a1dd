package entities

import "time"

// Vote is one user's choice on one question. QuestionID is denormalized from
// the answer so the store can hold a uniqueness constraint on
// (user_id, question_id); UserName is a display copy taken at write time and
// never re-fetched.
type Vote struct {
	VoteID     string
	AnswerID   string
	QuestionID string
	UserID     string
	UserName   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateAnswerRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateQuestionRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	EndingDate  time.Time             `json:"endingDate"`
	Answers     []CreateAnswerRequest `json:"answers"`
}

type AnswerResponse struct {
	AnswerID    string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QuestionResponse struct {
	QuestionID  string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	EndingDate  time.Time        `json:"endingDate"`
	Answers     []AnswerResponse `json:"answers"`
}

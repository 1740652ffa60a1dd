package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type CastVoteRequest struct {
	AnswerID string `json:"answerId"`
}

// VoteCreatedResponse is the 201 body: only the fresh vote id.
type VoteCreatedResponse struct {
	VoteID string `json:"id"`
}

// VoteUpdatedResponse is the 200 body for an in-place answer change.
type VoteUpdatedResponse struct {
	VoteID   string `json:"id"`
	AnswerID string `json:"answerId"`
}

type VoteListItem struct {
	VoteID   string `json:"id"`
	AnswerID string `json:"answerId"`
}

package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	questionservice "quorum/contexts/qa-core/question-service"
	questionerrors "quorum/contexts/qa-core/question-service/domain/errors"
	questionhttp "quorum/contexts/qa-core/question-service/transport/http"
	voteledger "quorum/contexts/qa-core/vote-ledger"
	voteerrors "quorum/contexts/qa-core/vote-ledger/domain/errors"
	votehttp "quorum/contexts/qa-core/vote-ledger/transport/http"
	"quorum/internal/platform/identity"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "quorum/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	questions questionservice.Module
	votes     voteledger.Module
	identity  *identity.Resolver
}

func New(
	questions questionservice.Module,
	votes voteledger.Module,
	resolver *identity.Resolver,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		questions: questions,
		votes:     votes,
		identity:  resolver,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/v1/questions", s.withUser(s.handleListQuestions))
	s.mux.HandleFunc("POST /api/v1/questions", s.withUser(s.handleCreateQuestion))
	s.mux.HandleFunc("GET /api/v1/questions/{question_id}", s.withUser(s.handleGetQuestion))
	s.mux.HandleFunc("GET /api/v1/questions/{question_id}/votes", s.withUser(s.handleListVotes))
	s.mux.HandleFunc("POST /api/v1/questions/{question_id}/votes", s.withUser(s.handleCastVote))
	s.mux.HandleFunc("PUT /api/v1/questions/{question_id}/votes", s.withUser(s.handleCastVote))
	s.mux.HandleFunc("GET /api/v1/me", s.withUser(s.handleMe))
}

// withUser resolves the bearer credential before the handler runs. Every API
// route requires an authenticated user.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request, identity.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "bearer credential is required", "")
			return
		}
		user, err := s.identity.Resolve(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "bearer credential is invalid", "")
			return
		}
		next(w, r, user)
	}
}

// handleListQuestions godoc
//
//	@Summary	List questions with nested answers
//	@Tags		questions
//	@Produce	json
//	@Success	200	{array}	http.QuestionResponse
//	@Router		/questions [get]
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request, _ identity.User) {
	resp, err := s.questions.Handler.ListQuestionsHandler(r.Context())
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateQuestion godoc
//
//	@Summary	Create a question with its answer options
//	@Tags		questions
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	http.QuestionResponse
//	@Failure	422	{object}	http.ErrorResponse
//	@Router		/questions [post]
func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request, _ identity.User) {
	var req questionhttp.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", "")
		return
	}
	resp, err := s.questions.Handler.CreateQuestionHandler(r.Context(), req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request, _ identity.User) {
	resp, err := s.questions.Handler.GetQuestionHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListVotes godoc
//
//	@Summary	List votes recorded against a question
//	@Tags		votes
//	@Produce	json
//	@Success	200	{array}	http.VoteListItem
//	@Router		/questions/{question_id}/votes [get]
func (s *Server) handleListVotes(w http.ResponseWriter, r *http.Request, _ identity.User) {
	resp, err := s.votes.Handler.QuestionVotesHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCastVote godoc
//
//	@Summary	Cast or change the caller's vote
//	@Tags		votes
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	http.VoteUpdatedResponse
//	@Success	201	{object}	http.VoteCreatedResponse
//	@Failure	422	{object}	http.ErrorResponse
//	@Router		/questions/{question_id}/votes [post]
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request, user identity.User) {
	var req votehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", "")
		return
	}
	outcome, err := s.votes.Handler.CastVoteHandler(r.Context(), user.ID, user.Name, req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	if outcome.WasUpdate {
		writeJSON(w, http.StatusOK, votehttp.VoteUpdatedResponse{
			VoteID:   outcome.VoteID,
			AnswerID: outcome.AnswerID,
		})
		return
	}
	writeJSON(w, http.StatusCreated, votehttp.VoteCreatedResponse{
		VoteID: outcome.VoteID,
	})
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// handleMe godoc
//
//	@Summary	Describe the authenticated user
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	httpserver.userResponse
//	@Router		/me [get]
func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, user identity.User) {
	writeJSON(w, http.StatusOK, userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

func writeQuestionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, questionerrors.ErrAnswersRequired):
		writeError(w, http.StatusUnprocessableEntity, "answers_required", err.Error(), "answers")
	case errors.Is(err, questionerrors.ErrInvalidQuestionInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_question", err.Error(), "title")
	case errors.Is(err, questionerrors.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "question_not_found", err.Error(), "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", "")
	}
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrAnswerNotFound):
		writeError(w, http.StatusNotFound, "answer_not_found", err.Error(), "")
	case errors.Is(err, voteerrors.ErrVoteNotFound):
		writeError(w, http.StatusNotFound, "vote_not_found", err.Error(), "")
	case errors.Is(err, voteerrors.ErrDuplicateAnswerVote),
		errors.Is(err, voteerrors.ErrDuplicateQuestionVote):
		writeError(w, http.StatusUnprocessableEntity, "duplicate_vote", err.Error(), "userId")
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_vote", err.Error(), "answerId")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", "")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string, field string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
		Field:   field,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

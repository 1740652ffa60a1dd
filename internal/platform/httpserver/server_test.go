package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	questionservice "quorum/contexts/qa-core/question-service"
	voteledger "quorum/contexts/qa-core/vote-ledger"
	voteports "quorum/contexts/qa-core/vote-ledger/ports"
	"quorum/internal/platform/identity"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	resolver, err := identity.NewResolver(testSecret)
	if err != nil {
		t.Fatalf("resolver construction failed: %v", err)
	}
	questions := questionservice.NewInMemoryModule(nil, nil)
	votes := voteledger.NewInMemoryModule(nil, nil)
	return New(questions, votes, resolver, nil, ":0")
}

func bearerToken(t *testing.T, userID string, userName string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"name":  userName,
		"email": userID + "@example.com",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}
	return token
}

func doRequest(s *Server, method string, path string, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.mux.ServeHTTP(recorder, req)
	return recorder
}

func TestRoutesRequireBearerToken(t *testing.T) {
	server := newTestServer(t)

	recorder := doRequest(server, http.MethodGet, "/api/v1/questions", "", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", recorder.Code)
	}

	recorder = doRequest(server, http.MethodGet, "/api/v1/me", "garbage", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", recorder.Code)
	}
}

func TestCreateQuestionContract(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1", "Ada")

	recorder := doRequest(server, http.MethodPost, "/api/v1/questions", token, `{
		"title": "Favorite color?",
		"description": "Pick one",
		"endingDate": "2026-04-01T00:00:00Z",
		"answers": [{"title": "Red"}, {"title": "Blue"}]
	}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var created struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Answers []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"answers"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if created.ID == "" || created.Title != "Favorite color?" {
		t.Fatalf("unexpected response: %s", recorder.Body.String())
	}
	if len(created.Answers) != 2 || created.Answers[0].Title != "Red" {
		t.Fatalf("unexpected answers: %s", recorder.Body.String())
	}

	recorder = doRequest(server, http.MethodGet, "/api/v1/questions/"+created.ID, token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on lookup, got %d", recorder.Code)
	}
}

func TestCreateQuestionWithoutAnswers(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1", "Ada")

	recorder := doRequest(server, http.MethodPost, "/api/v1/questions", token, `{
		"title": "Favorite color?",
		"answers": []
	}`)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}

	var errBody struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("error decode failed: %v", err)
	}
	if errBody.Message != "Answers should be filled" {
		t.Fatalf("unexpected message %q", errBody.Message)
	}
	if errBody.Field != "answers" {
		t.Fatalf("unexpected field %q", errBody.Field)
	}
}

func TestCastVoteLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1", "Ada")

	server.votes.Store.SetAnswer(voteports.AnswerProjection{AnswerID: "answer-1", QuestionID: "question-1"})
	server.votes.Store.SetAnswer(voteports.AnswerProjection{AnswerID: "answer-2", QuestionID: "question-1"})

	recorder := doRequest(server, http.MethodPost, "/api/v1/questions/question-1/votes", token, `{"answerId": "answer-1"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first vote, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected vote id in 201 body: %s", recorder.Body.String())
	}

	recorder = doRequest(server, http.MethodPost, "/api/v1/questions/question-1/votes", token, `{"answerId": "answer-1"}`)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on repeat vote, got %d", recorder.Code)
	}
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("error decode failed: %v", err)
	}
	if errBody.Message != "should vote for an answer once" {
		t.Fatalf("unexpected message %q", errBody.Message)
	}

	recorder = doRequest(server, http.MethodPut, "/api/v1/questions/question-1/votes", token, `{"answerId": "answer-2"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on answer change, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var updated struct {
		ID       string `json:"id"`
		AnswerID string `json:"answerId"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &updated); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same vote id %q, got %q", created.ID, updated.ID)
	}
	if updated.AnswerID != "answer-2" {
		t.Fatalf("expected answer-2, got %q", updated.AnswerID)
	}

	recorder = doRequest(server, http.MethodGet, "/api/v1/questions/question-1/votes", token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on vote list, got %d", recorder.Code)
	}
	var votes []struct {
		ID       string `json:"id"`
		AnswerID string `json:"answerId"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &votes); err != nil {
		t.Fatalf("vote list decode failed: %v", err)
	}
	if len(votes) != 1 || votes[0].AnswerID != "answer-2" {
		t.Fatalf("unexpected vote list: %s", recorder.Body.String())
	}
}

func TestCastVoteUnknownAnswer(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1", "Ada")

	recorder := doRequest(server, http.MethodPost, "/api/v1/questions/question-1/votes", token, `{"answerId": "answer-missing"}`)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestMeReturnsResolvedIdentity(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1", "Ada")

	recorder := doRequest(server, http.MethodGet, "/api/v1/me", token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var me struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &me); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if me.ID != "user-1" || me.Name != "Ada" || me.Email != "user-1@example.com" {
		t.Fatalf("unexpected identity: %+v", me)
	}
}

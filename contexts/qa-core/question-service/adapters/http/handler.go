package httpadapter

import (
	"context"
	"log/slog"

	"quorum/contexts/qa-core/question-service/application/commands"
	"quorum/contexts/qa-core/question-service/application/queries"
	"quorum/contexts/qa-core/question-service/domain/entities"
	httptransport "quorum/contexts/qa-core/question-service/transport/http"
)

type Handler struct {
	Questions commands.QuestionUseCase
	Reads     queries.QuestionsUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateQuestionHandler(
	ctx context.Context,
	req httptransport.CreateQuestionRequest,
) (httptransport.QuestionResponse, error) {
	answers := make([]commands.AnswerInput, 0, len(req.Answers))
	for _, answer := range req.Answers {
		answers = append(answers, commands.AnswerInput{
			Title:       answer.Title,
			Description: answer.Description,
		})
	}
	question, err := h.Questions.CreateQuestion(ctx, commands.CreateQuestionCommand{
		Title:       req.Title,
		Description: req.Description,
		EndingDate:  req.EndingDate,
		Answers:     answers,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return mapQuestion(question), nil
}

func (h Handler) ListQuestionsHandler(ctx context.Context) ([]httptransport.QuestionResponse, error) {
	questions, err := h.Reads.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, mapQuestion(question))
	}
	return items, nil
}

func (h Handler) GetQuestionHandler(ctx context.Context, questionID string) (httptransport.QuestionResponse, error) {
	question, err := h.Reads.GetQuestion(ctx, questionID)
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return mapQuestion(question), nil
}

func mapQuestion(question entities.Question) httptransport.QuestionResponse {
	answers := make([]httptransport.AnswerResponse, 0, len(question.Answers))
	for _, answer := range question.Answers {
		answers = append(answers, httptransport.AnswerResponse{
			AnswerID:    answer.AnswerID,
			Title:       answer.Title,
			Description: answer.Description,
		})
	}
	return httptransport.QuestionResponse{
		QuestionID:  question.QuestionID,
		Title:       question.Title,
		Description: question.Description,
		EndingDate:  question.EndingDate,
		Answers:     answers,
	}
}

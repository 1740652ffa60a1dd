package queries

import (
	"context"
	"strings"

	"quorum/contexts/qa-core/question-service/domain/entities"
	"quorum/contexts/qa-core/question-service/ports"
)

type QuestionsUseCase struct {
	Questions ports.QuestionRepository
}

func (uc QuestionsUseCase) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	return uc.Questions.ListQuestions(ctx)
}

func (uc QuestionsUseCase) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	return uc.Questions.GetQuestion(ctx, strings.TrimSpace(questionID))
}

package commands

import (
	"encoding/json"
	"time"

	"quorum/contexts/qa-core/question-service/domain/entities"
	"quorum/internal/shared/events"
)

func newQuestionCreatedEnvelope(
	eventID string,
	question entities.Question,
	occurredAt time.Time,
) (events.Envelope, error) {
	// Events are partitioned by question for stable ordering on
	// question-scoped consumers.
	payload, err := json.Marshal(map[string]any{
		"question_id": question.QuestionID,
		"title":       question.Title,
		"ending_date": question.EndingDate.UTC().Format(time.RFC3339),
		"occurred_at": occurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:       eventID,
		EventType:     "question.created",
		SourceService: "question-service",
		OccurredAt:    occurredAt.UTC(),
		PartitionKey:  question.QuestionID,
		SchemaVersion: 1,
		Data:          payload,
	}, nil
}

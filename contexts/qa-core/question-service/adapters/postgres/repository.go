package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/qa-core/question-service/domain/entities"
	domainerrors "quorum/contexts/qa-core/question-service/domain/errors"
	"quorum/contexts/qa-core/question-service/ports"
	"quorum/internal/shared/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the questions/answers/outbox tables. The answers table
// cascades from questions so a question delete takes its answers (and,
// through the ledger's FK, their votes) with it.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&questionModel{}, &answerModel{}, &outboxModel{}); err != nil {
		return err
	}
	migrator := db.Migrator()
	if !migrator.HasConstraint(&answerModel{}, "fk_answers_question") {
		return db.Exec(
			"ALTER TABLE answers ADD CONSTRAINT fk_answers_question FOREIGN KEY (question_id) REFERENCES questions (id) ON DELETE CASCADE",
		).Error
	}
	return nil
}

func (r *Repository) SaveQuestion(ctx context.Context, question entities.Question) error {
	questionRow := questionModelFromEntity(question)
	answerRows := make([]answerModel, 0, len(question.Answers))
	for _, answer := range question.Answers {
		answerRows = append(answerRows, answerModelFromEntity(answer))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&questionRow).Error; err != nil {
			return err
		}
		if len(answerRows) == 0 {
			return nil
		}
		return tx.Create(&answerRows).Error
	})
	if err != nil {
		return r.logError("question_repo_save_question_failed", err,
			"question_id", strings.TrimSpace(question.QuestionID),
		)
	}
	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	var row questionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("question_repo_get_question_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}

	var answerRows []answerModel
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", row.ID).
		Order("position ASC").
		Find(&answerRows).Error; err != nil {
		return entities.Question{}, r.logError("question_repo_get_answers_failed", err,
			"question_id", row.ID,
		)
	}
	return row.toEntity(answerRows), nil
}

func (r *Repository) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	var rows []questionModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("question_repo_list_questions_failed", err)
	}
	if len(rows) == 0 {
		return []entities.Question{}, nil
	}

	questionIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		questionIDs = append(questionIDs, row.ID)
	}
	var answerRows []answerModel
	if err := r.db.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("position ASC").
		Find(&answerRows).Error; err != nil {
		return nil, r.logError("question_repo_list_answers_failed", err)
	}

	byQuestion := make(map[string][]answerModel, len(rows))
	for _, answer := range answerRows {
		byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], answer)
	}
	items := make([]entities.Question, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity(byQuestion[row.ID]))
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("question_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("question_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("question_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("question_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "qa-core/question-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("question repository operation failed", fields...)
	return err
}

type questionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	EndingDate  time.Time `gorm:"column:ending_date"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (questionModel) TableName() string {
	return "questions"
}

func questionModelFromEntity(question entities.Question) questionModel {
	row := questionModel{
		ID:          strings.TrimSpace(question.QuestionID),
		Title:       strings.TrimSpace(question.Title),
		Description: strings.TrimSpace(question.Description),
		EndingDate:  question.EndingDate.UTC(),
		CreatedAt:   question.CreatedAt.UTC(),
		UpdatedAt:   question.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m questionModel) toEntity(answers []answerModel) entities.Question {
	question := entities.Question{
		QuestionID:  m.ID,
		Title:       m.Title,
		Description: m.Description,
		EndingDate:  m.EndingDate.UTC(),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	for _, answer := range answers {
		question.Answers = append(question.Answers, answer.toEntity())
	}
	return question
}

type answerModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	QuestionID  string    `gorm:"column:question_id;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	Position    int       `gorm:"column:position;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (answerModel) TableName() string {
	return "answers"
}

func answerModelFromEntity(answer entities.Answer) answerModel {
	row := answerModel{
		ID:          strings.TrimSpace(answer.AnswerID),
		QuestionID:  strings.TrimSpace(answer.QuestionID),
		Title:       strings.TrimSpace(answer.Title),
		Description: strings.TrimSpace(answer.Description),
		Position:    answer.Position,
		CreatedAt:   answer.CreatedAt.UTC(),
		UpdatedAt:   answer.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m answerModel) toEntity() entities.Answer {
	return entities.Answer{
		AnswerID:    m.ID,
		QuestionID:  m.QuestionID,
		Title:       m.Title,
		Description: m.Description,
		Position:    m.Position,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "question_outbox"
}

var _ ports.QuestionRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)

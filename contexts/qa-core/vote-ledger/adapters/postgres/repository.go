package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/qa-core/vote-ledger/domain/entities"
	domainerrors "quorum/contexts/qa-core/vote-ledger/domain/errors"
	"quorum/contexts/qa-core/vote-ledger/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// Migrate creates the votes table with its uniqueness indexes. The answers
// table belongs to the question-service schema and is only read here.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&voteModel{}); err != nil {
		return err
	}
	migrator := db.Migrator()
	if !migrator.HasConstraint(&voteModel{}, "fk_votes_answer") {
		return db.Exec(
			"ALTER TABLE votes ADD CONSTRAINT fk_votes_answer FOREIGN KEY (answer_id) REFERENCES answers (id) ON DELETE CASCADE",
		).Error
	}
	return nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"answer_id":  row.AnswerID,
			"user_name":  row.UserName,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			// Racing identical insert hit the (user_id, question_id) index.
			return domainerrors.ErrDuplicateQuestionVote
		}
		return r.logError("ledger_repo_save_vote_failed", create.Error,
			"vote_id", strings.TrimSpace(vote.VoteID),
			"question_id", strings.TrimSpace(vote.QuestionID),
			"user_id", strings.TrimSpace(vote.UserID),
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, voteID string) (entities.Vote, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, domainerrors.ErrVoteNotFound
		}
		return entities.Vote{}, r.logError("ledger_repo_get_vote_failed", err, "vote_id", strings.TrimSpace(voteID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVoteByUserAndQuestion(
	ctx context.Context,
	userID string,
	questionID string,
) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("ledger_repo_get_vote_by_user_question_failed", err,
			"user_id", strings.TrimSpace(userID),
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) HasVoteByUserAndAnswer(ctx context.Context, userID string, answerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("answer_id = ?", strings.TrimSpace(answerID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("ledger_repo_has_vote_by_user_answer_failed", err,
			"user_id", strings.TrimSpace(userID),
			"answer_id", strings.TrimSpace(answerID),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListVotesByQuestion(ctx context.Context, questionID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_votes_by_question_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetAnswer(ctx context.Context, answerID string) (ports.AnswerProjection, error) {
	var row answerProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(answerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AnswerProjection{}, domainerrors.ErrAnswerNotFound
		}
		return ports.AnswerProjection{}, r.logError("ledger_repo_get_answer_failed", err,
			"answer_id", strings.TrimSpace(answerID),
		)
	}
	return ports.AnswerProjection{
		AnswerID:   row.ID,
		QuestionID: row.QuestionID,
	}, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "qa-core/vote-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote ledger repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	AnswerID   string    `gorm:"column:answer_id;not null;uniqueIndex:idx_votes_user_answer"`
	QuestionID string    `gorm:"column:question_id;not null;uniqueIndex:idx_votes_user_question"`
	UserID     string    `gorm:"column:user_id;not null;uniqueIndex:idx_votes_user_question;uniqueIndex:idx_votes_user_answer"`
	UserName   string    `gorm:"column:user_name;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:         strings.TrimSpace(vote.VoteID),
		AnswerID:   strings.TrimSpace(vote.AnswerID),
		QuestionID: strings.TrimSpace(vote.QuestionID),
		UserID:     strings.TrimSpace(vote.UserID),
		UserName:   strings.TrimSpace(vote.UserName),
		CreatedAt:  vote.CreatedAt.UTC(),
		UpdatedAt:  vote.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.ID,
		AnswerID:   m.AnswerID,
		QuestionID: m.QuestionID,
		UserID:     m.UserID,
		UserName:   m.UserName,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type answerProjectionModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	QuestionID string `gorm:"column:question_id"`
}

func (answerProjectionModel) TableName() string {
	return "answers"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)

package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/db"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/dberrors"
	"github.com/yigit/classqa/internal/pkg/logger"
)

// IAnswerRepository defines the interface for answer-related database operations
type IAnswerRepository interface {
	Create(ctx context.Context, in models.NewAnswer) (*models.Answer, error)
}

// AnswerRepository handles database operations for answers
type AnswerRepository struct {
	db DBTX
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create stores the answer and its images, returning it with its author loaded
func (r *AnswerRepository) Create(ctx context.Context, in models.NewAnswer) (*models.Answer, error) {
	answer := &models.Answer{
		Content:    in.Content,
		AuthorID:   in.AuthorID,
		QuestionID: in.QuestionID,
		Author:     &models.User{},
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("answers").
			Columns("content", "author_id", "question_id").
			Values(in.Content, in.AuthorID, in.QuestionID).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create answer query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&answer.ID, &answer.CreatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err, dberrors.AnswersQuestionFK) {
				return apperrors.ErrQuestionNotFound
			}
			return fmt.Errorf("error creating answer: %w", err)
		}

		answer.Images, err = insertImages(ctx, tx, in.Images, nil, &answer.ID)
		if err != nil {
			return err
		}

		authorSQL, authorArgs, err := psql.Select(userColumns...).
			From("users u").
			Where(squirrel.Eq{"u.id": in.AuthorID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build answer author query: %w", err)
		}
		if err := tx.QueryRow(ctx, authorSQL, authorArgs...).Scan(userDest(answer.Author)...); err != nil {
			if dberrors.IsNoRows(err) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error loading answer author: %w", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrConflict) {
			logger.Error().Err(err).Int64("questionID", in.QuestionID).Msg("Error creating answer")
		}
		return nil, err
	}
	return answer, nil
}

// loadAnswers returns answers, with authors, for the given questions oldest first
func loadAnswers(ctx context.Context, q DBTX, questionIDs []int64) ([]models.Answer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}

	columns := append([]string{"a.id", "a.content", "a.author_id", "a.question_id", "a.created_at"}, userColumns...)
	sql, args, err := psql.Select(columns...).
		From("answers a").
		Join("users u ON u.id = a.author_id").
		Where(squirrel.Eq{"a.question_id": questionIDs}).
		OrderBy("a.created_at ASC", "a.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load answers query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		a := models.Answer{Author: &models.User{}, Images: []models.Image{}}
		dest := append([]any{&a.ID, &a.Content, &a.AuthorID, &a.QuestionID, &a.CreatedAt}, userDest(a.Author)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning answer row: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

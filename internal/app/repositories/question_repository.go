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

// IQuestionRepository defines the interface for question-related database operations
type IQuestionRepository interface {
	Create(ctx context.Context, in models.NewQuestion) (*models.Question, error)
	GetByID(ctx context.Context, id int64) (*models.Question, error)
	// List applies the lecture and resolved filters; tag filtering is left to the caller
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	SetResolved(ctx context.Context, id int64, resolved bool) error
	ReplaceTags(ctx context.Context, id int64, tagIDs []int64) error
	// Delete removes the question with its answers and returns the filenames
	// of images that were attached to either
	Delete(ctx context.Context, id int64) ([]string, error)
}

// QuestionRepository handles database operations for questions
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create stores the question with its tag links and images in one transaction
func (r *QuestionRepository) Create(ctx context.Context, in models.NewQuestion) (*models.Question, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("questions").
			Columns("title", "content", "author_id", "lecture_id", "show_nickname").
			Values(in.Title, in.Content, in.AuthorID, in.LectureID, in.ShowNickname).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create question query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			if dberrors.IsForeignKeyViolation(err, dberrors.QuestionsLectureFK) {
				return apperrors.ErrLectureNotFound
			}
			return fmt.Errorf("error creating question: %w", err)
		}

		if err := insertQuestionTags(ctx, tx, id, in.TagIDs); err != nil {
			return err
		}

		_, err = insertImages(ctx, tx, in.Images, &id, nil)
		return err
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrConflict) {
			logger.Error().Err(err).Int64("lectureID", in.LectureID).Msg("Error creating question")
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func insertQuestionTags(ctx context.Context, tx DBTX, questionID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	builder := psql.Insert("question_tags").
		Columns("question_id", "tag_id").
		Suffix("ON CONFLICT DO NOTHING")
	for _, tagID := range tagIDs {
		builder = builder.Values(questionID, tagID)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build question tags query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err, dberrors.QuestionTagsTagFK) {
			return apperrors.ErrTagNotFound
		}
		return fmt.Errorf("error linking question tags: %w", err)
	}
	return nil
}

// GetByID retrieves a question with author, tags, images and answers
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	questions, err := r.query(ctx, squirrel.Eq{"q.id": id})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.ErrQuestionNotFound
	}
	return &questions[0], nil
}

// List returns matching questions newest first
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	where := squirrel.And{}
	if filter.LectureID != nil {
		where = append(where, squirrel.Eq{"q.lecture_id": *filter.LectureID})
	}
	if filter.Resolved != nil {
		where = append(where, squirrel.Eq{"q.resolved": *filter.Resolved})
	}
	return r.query(ctx, where)
}

func (r *QuestionRepository) query(ctx context.Context, where squirrel.Sqlizer) ([]models.Question, error) {
	columns := append([]string{
		"q.id", "q.title", "q.content", "q.author_id", "q.lecture_id",
		"q.resolved", "q.show_nickname", "q.created_at", "q.updated_at",
	}, userColumns...)

	sql, args, err := psql.Select(columns...).
		From("questions q").
		Join("users u ON u.id = q.author_id").
		Where(where).
		OrderBy("q.created_at DESC", "q.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing question query")
		return nil, fmt.Errorf("error querying questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q := models.Question{Author: &models.User{}}
		dest := append([]any{
			&q.ID, &q.Title, &q.Content, &q.AuthorID, &q.LectureID,
			&q.Resolved, &q.ShowNickname, &q.CreatedAt, &q.UpdatedAt,
		}, userDest(q.Author)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}
	rows.Close()

	if err := r.loadRelations(ctx, questions); err != nil {
		logger.Error().Err(err).Msg("Error loading question relations")
		return nil, err
	}
	return questions, nil
}

// loadRelations batch-loads tags, answers and images for questions
func (r *QuestionRepository) loadRelations(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]int64, len(questions))
	index := make(map[int64]*models.Question, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
		index[questions[i].ID] = &questions[i]
		questions[i].Tags = []models.Tag{}
		questions[i].Answers = []models.Answer{}
		questions[i].Images = []models.Image{}
	}

	if err := r.loadTags(ctx, ids, index); err != nil {
		return err
	}

	answers, err := loadAnswers(ctx, r.db, ids)
	if err != nil {
		return err
	}
	answerIDs := make([]int64, 0, len(answers))
	for _, a := range answers {
		if q, ok := index[a.QuestionID]; ok {
			q.Answers = append(q.Answers, a)
			answerIDs = append(answerIDs, a.ID)
		}
	}
	answerIndex := make(map[int64]*models.Answer, len(answerIDs))
	for i := range questions {
		for j := range questions[i].Answers {
			answerIndex[questions[i].Answers[j].ID] = &questions[i].Answers[j]
		}
	}

	images, err := loadImages(ctx, r.db, ids, answerIDs)
	if err != nil {
		return err
	}
	for _, img := range images {
		switch {
		case img.QuestionID != nil:
			if q, ok := index[*img.QuestionID]; ok {
				q.Images = append(q.Images, img)
			}
		case img.AnswerID != nil:
			if a, ok := answerIndex[*img.AnswerID]; ok {
				a.Images = append(a.Images, img)
			}
		}
	}
	return nil
}

func (r *QuestionRepository) loadTags(ctx context.Context, ids []int64, index map[int64]*models.Question) error {
	sql, args, err := psql.Select("qt.question_id", "t.id", "t.name", "t.lecture_id", "t.created_at").
		From("question_tags qt").
		Join("tags t ON t.id = qt.tag_id").
		Where(squirrel.Eq{"qt.question_id": ids}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build question tags query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying question tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID int64
		var t models.Tag
		if err := rows.Scan(&questionID, &t.ID, &t.Name, &t.LectureID, &t.CreatedAt); err != nil {
			return fmt.Errorf("error scanning question tag row: %w", err)
		}
		if q, ok := index[questionID]; ok {
			q.Tags = append(q.Tags, t)
		}
	}
	return rows.Err()
}

// SetResolved flips the resolved flag
func (r *QuestionRepository) SetResolved(ctx context.Context, id int64, resolved bool) error {
	sql, args, err := psql.Update("questions").
		Set("resolved", resolved).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build resolve question query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("questionID", id).Msg("Error updating resolved state")
		return fmt.Errorf("error updating question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}
	return nil
}

// ReplaceTags swaps the question's tag set for tagIDs
func (r *QuestionRepository) ReplaceTags(ctx context.Context, id int64, tagIDs []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE questions SET updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error touching question: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrQuestionNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM question_tags WHERE question_id = $1`, id); err != nil {
			return fmt.Errorf("error clearing question tags: %w", err)
		}
		return insertQuestionTags(ctx, tx, id, tagIDs)
	})
}

// Delete removes the question; answers, tag links and image rows cascade
func (r *QuestionRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var filenames []string

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		filenames, err = collectImageFilenames(ctx, tx, squirrel.Or{
			squirrel.Eq{"i.question_id": id},
			squirrel.Expr("i.answer_id IN (SELECT id FROM answers WHERE question_id = ?)", id),
		})
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting question: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrQuestionNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filenames, nil
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/dberrors"
)

// ErrImageAlreadyAttached is returned when an upload is attached a second time
var ErrImageAlreadyAttached = apperrors.NewConflictError("image is already attached")

// insertImages stores image rows owned by exactly one of questionID or answerID
func insertImages(ctx context.Context, q DBTX, images []models.Image, questionID, answerID *int64) ([]models.Image, error) {
	if len(images) == 0 {
		return []models.Image{}, nil
	}

	builder := psql.Insert("images").
		Columns("filename", "path", "question_id", "answer_id").
		Suffix("RETURNING id, filename, path, question_id, answer_id, created_at")
	for _, img := range images {
		builder = builder.Values(img.Filename, img.Path, questionID, answerID)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert images query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ImagesFilenameKey) {
			return nil, ErrImageAlreadyAttached
		}
		return nil, fmt.Errorf("error inserting images: %w", err)
	}
	defer rows.Close()

	stored := make([]models.Image, 0, len(images))
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.Filename, &img.Path, &img.QuestionID, &img.AnswerID, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning image row: %w", err)
		}
		stored = append(stored, img)
	}
	if err := rows.Err(); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ImagesFilenameKey) {
			return nil, ErrImageAlreadyAttached
		}
		return nil, fmt.Errorf("error inserting images: %w", err)
	}
	return stored, nil
}

// loadImages returns images owned by any of the given questions or answers
func loadImages(ctx context.Context, q DBTX, questionIDs, answerIDs []int64) ([]models.Image, error) {
	or := squirrel.Or{}
	if len(questionIDs) > 0 {
		or = append(or, squirrel.Eq{"i.question_id": questionIDs})
	}
	if len(answerIDs) > 0 {
		or = append(or, squirrel.Eq{"i.answer_id": answerIDs})
	}
	if len(or) == 0 {
		return nil, nil
	}

	sql, args, err := psql.Select("i.id", "i.filename", "i.path", "i.question_id", "i.answer_id", "i.created_at").
		From("images i").
		Where(or).
		OrderBy("i.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load images query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.Filename, &img.Path, &img.QuestionID, &img.AnswerID, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning image row: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// collectImageFilenames lists filenames of image rows matching where
func collectImageFilenames(ctx context.Context, q DBTX, where squirrel.Sqlizer) ([]string, error) {
	sql, args, err := psql.Select("i.filename").
		From("images i").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build image filename query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying image filenames: %w", err)
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning image filename: %w", err)
		}
		filenames = append(filenames, name)
	}
	return filenames, rows.Err()
}

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

// ILectureRepository defines the interface for lecture-related database operations
type ILectureRepository interface {
	Create(ctx context.Context, lecture *models.Lecture) error
	GetByID(ctx context.Context, id int64) (*models.Lecture, error)
	List(ctx context.Context) ([]models.Lecture, error)
	LectureExists(ctx context.Context, id int64) (bool, error)
	// Delete removes the lecture with everything beneath it and returns the
	// filenames of images that were attached to it
	Delete(ctx context.Context, id int64) ([]string, error)
}

// LectureRepository handles database operations for lectures
type LectureRepository struct {
	db DBTX
}

// NewLectureRepository creates a new lecture repository
func NewLectureRepository(db DBTX) *LectureRepository {
	return &LectureRepository{db: db}
}

// Create inserts lecture and fills in its ID and creation time
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	sql, args, err := psql.Insert("lectures").
		Columns("name", "description", "teacher_id").
		Values(lecture.Name, lecture.Description, lecture.TeacherID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create lecture query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lecture.ID, &lecture.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err, dberrors.LecturesTeacherFK) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error creating lecture")
		return fmt.Errorf("error creating lecture: %w", err)
	}
	return nil
}

func (r *LectureRepository) selectLectures() squirrel.SelectBuilder {
	return psql.Select(
		"l.id", "l.name", "l.description", "l.teacher_id", "l.created_at",
		"u.name", "u.role",
		"(SELECT COUNT(*) FROM questions q WHERE q.lecture_id = l.id) AS question_count",
	).
		From("lectures l").
		Join("users u ON u.id = l.teacher_id")
}

func scanLecture(row pgx.Row) (*models.Lecture, error) {
	lecture := &models.Lecture{Teacher: &models.User{}}
	err := row.Scan(
		&lecture.ID,
		&lecture.Name,
		&lecture.Description,
		&lecture.TeacherID,
		&lecture.CreatedAt,
		&lecture.Teacher.Name,
		&lecture.Teacher.Role,
		&lecture.QuestionCount,
	)
	if err != nil {
		return nil, err
	}
	lecture.Teacher.ID = lecture.TeacherID
	return lecture, nil
}

// GetByID retrieves a lecture with its teacher and question count
func (r *LectureRepository) GetByID(ctx context.Context, id int64) (*models.Lecture, error) {
	sql, args, err := r.selectLectures().
		Where(squirrel.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lecture query: %w", err)
	}

	lecture, err := scanLecture(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLectureNotFound
		}
		logger.Error().Err(err).Int64("lectureID", id).Msg("Error scanning lecture row")
		return nil, fmt.Errorf("error getting lecture: %w", err)
	}
	return lecture, nil
}

// List returns every lecture, newest first
func (r *LectureRepository) List(ctx context.Context) ([]models.Lecture, error) {
	sql, args, err := r.selectLectures().
		OrderBy("l.created_at DESC", "l.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lectures query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list lectures query")
		return nil, fmt.Errorf("error querying lectures: %w", err)
	}
	defer rows.Close()

	lectures := []models.Lecture{}
	for rows.Next() {
		lecture, err := scanLecture(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lecture row: %w", err)
		}
		lectures = append(lectures, *lecture)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lecture rows: %w", err)
	}
	return lectures, nil
}

// LectureExists reports whether a lecture with id exists
func (r *LectureRepository) LectureExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM lectures WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking lecture existence: %w", err)
	}
	return exists, nil
}

// Delete removes a lecture; questions, answers, tags and image rows cascade.
func (r *LectureRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var filenames []string

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		filenames, err = collectImageFilenames(ctx, tx, squirrel.Or{
			squirrel.Expr("i.question_id IN (SELECT id FROM questions WHERE lecture_id = ?)", id),
			squirrel.Expr("i.answer_id IN (SELECT a.id FROM answers a JOIN questions q ON q.id = a.question_id WHERE q.lecture_id = ?)", id),
		})
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting lecture: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrLectureNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filenames, nil
}

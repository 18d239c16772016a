package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/dberrors"
	"github.com/yigit/classqa/internal/pkg/logger"
)

// ITagRepository defines the interface for tag-related database operations
type ITagRepository interface {
	ListByLecture(ctx context.Context, lectureID int64) ([]models.Tag, error)
	// GetOrCreate returns the tag named name in the lecture, creating it if
	// needed; created reports which happened
	GetOrCreate(ctx context.Context, lectureID int64, name string) (tag *models.Tag, created bool, err error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Tag, error)
	Delete(ctx context.Context, lectureID, tagID int64) error
}

// TagRepository handles database operations for tags
type TagRepository struct {
	db DBTX
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

var tagColumns = []string{"id", "name", "lecture_id", "created_at"}

func (r *TagRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Tag, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tag query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing tag query")
		return nil, fmt.Errorf("error querying tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.LectureID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}

// ListByLecture returns the lecture's tags ordered by name
func (r *TagRepository) ListByLecture(ctx context.Context, lectureID int64) ([]models.Tag, error) {
	return r.list(ctx, psql.Select(tagColumns...).
		From("tags").
		Where(squirrel.Eq{"lecture_id": lectureID}).
		OrderBy("name ASC"))
}

// GetByIDs returns the tags with the given ids, in id order
func (r *TagRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	return r.list(ctx, psql.Select(tagColumns...).
		From("tags").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC"))
}

// GetOrCreate relies on the (name, lecture_id) unique key so concurrent
// callers converge on one row.
func (r *TagRepository) GetOrCreate(ctx context.Context, lectureID int64, name string) (*models.Tag, bool, error) {
	insert, args, err := psql.Insert("tags").
		Columns("name", "lecture_id").
		Values(name, lectureID).
		Suffix("ON CONFLICT (name, lecture_id) DO NOTHING RETURNING id, name, lecture_id, created_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build create tag query: %w", err)
	}

	tag := &models.Tag{}
	err = r.db.QueryRow(ctx, insert, args...).Scan(&tag.ID, &tag.Name, &tag.LectureID, &tag.CreatedAt)
	if err == nil {
		return tag, true, nil
	}
	if dberrors.IsForeignKeyViolation(err, "") {
		return nil, false, apperrors.ErrLectureNotFound
	}
	if !dberrors.IsNoRows(err) {
		logger.Error().Err(err).Int64("lectureID", lectureID).Str("name", name).Msg("Error creating tag")
		return nil, false, fmt.Errorf("error creating tag: %w", err)
	}

	// Already existed
	sql, args, err := psql.Select(tagColumns...).
		From("tags").
		Where(squirrel.Eq{"lecture_id": lectureID, "name": name}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build get tag query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&tag.ID, &tag.Name, &tag.LectureID, &tag.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("lectureID", lectureID).Str("name", name).Msg("Error loading existing tag")
		return nil, false, fmt.Errorf("error getting tag: %w", err)
	}
	return tag, false, nil
}

// Delete removes a tag from a lecture; question links cascade
func (r *TagRepository) Delete(ctx context.Context, lectureID, tagID int64) error {
	sql, args, err := psql.Delete("tags").
		Where(squirrel.Eq{"id": tagID, "lecture_id": lectureID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete tag query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tagID", tagID).Msg("Error deleting tag")
		return fmt.Errorf("error deleting tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTagNotFound
	}
	return nil
}

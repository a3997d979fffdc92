package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/learning-platform/internal/model"
)

// LessonRepo encapsulates queries against the lessons table.
type LessonRepo struct {
	db *sql.DB
}

// NewLessonRepo constructs a LessonRepo with the provided DB handle.
func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{db: db} }

// Create inserts a lesson and populates its generated ID.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	const q = "INSERT INTO lessons (course_id, title, content, position) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, l.CourseID, l.Title, l.Content, l.Position)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	const sel = "SELECT created_at FROM lessons WHERE id=?"
	return r.db.QueryRowContext(ctx, sel, l.ID).Scan(&l.CreatedAt)
}

// GetByID fetches a lesson, returning ErrLessonNotFound when absent.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	const q = "SELECT id,course_id,title,content,position,created_at FROM lessons WHERE id=?"
	var l model.Lesson
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.CourseID, &l.Title, &l.Content, &l.Position, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListByCourse returns the lessons of a course ordered by position.
func (r *LessonRepo) ListByCourse(ctx context.Context, courseID uint64) ([]*model.Lesson, error) {
	const q = `SELECT id,course_id,title,content,position,created_at
			   FROM lessons WHERE course_id=? ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Lesson, 0)
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.Position, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

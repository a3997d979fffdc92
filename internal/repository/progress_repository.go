package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/service"
)

// ProgressRepo persists lesson_progress rows. It implements
// service.ProgressStore: the reconciler owns the merge rules, this type
// owns the SQL, and the version column arbitrates concurrent writers.
type ProgressRepo struct {
	db *sql.DB
}

// NewProgressRepo constructs a ProgressRepo with the provided DB handle.
func NewProgressRepo(db *sql.DB) *ProgressRepo { return &ProgressRepo{db: db} }

const progressColumns = `id,user_id,lesson_id,course_id,progress_percentage,
time_spent_seconds,completed,started_at,completed_at,updated_at,version`

// Get fetches the record for (userID, lessonID). The raw sql.ErrNoRows is
// returned when no record exists yet.
func (r *ProgressRepo) Get(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error) {
	const q = "SELECT " + progressColumns + " FROM lesson_progress WHERE user_id=? AND lesson_id=? LIMIT 1"
	var p model.LessonProgress
	err := r.db.QueryRowContext(ctx, q, userID, lessonID).Scan(
		&p.ID, &p.UserID, &p.LessonID, &p.CourseID, &p.ProgressPercentage,
		&p.TimeSpentSeconds, &p.Completed, &p.StartedAt, &p.CompletedAt,
		&p.UpdatedAt, &p.Version)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert creates the first record for a (user, lesson) pair. The unique
// index on (user_id, lesson_id) turns an insert race into
// service.ErrProgressExists so the reconciler can retry as an update.
func (r *ProgressRepo) Insert(ctx context.Context, rec *model.LessonProgress) error {
	const q = `INSERT INTO lesson_progress
			   (user_id, lesson_id, course_id, progress_percentage, time_spent_seconds,
				completed, started_at, completed_at, updated_at, version)
			   VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		rec.UserID, rec.LessonID, rec.CourseID, rec.ProgressPercentage,
		rec.TimeSpentSeconds, rec.Completed, rec.StartedAt, rec.CompletedAt,
		rec.UpdatedAt, rec.Version)
	if err != nil {
		if isDuplicate(err) {
			return service.ErrProgressExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// UpdateVersioned writes rec only if the stored version still equals
// expected. A false return with nil error means another writer got there
// first and the caller should re-read and re-merge.
func (r *ProgressRepo) UpdateVersioned(ctx context.Context, rec *model.LessonProgress, expected uint32) (bool, error) {
	const q = `UPDATE lesson_progress
			   SET progress_percentage=?, time_spent_seconds=?, completed=?,
				   completed_at=?, updated_at=?, version=?
			   WHERE user_id=? AND lesson_id=? AND version=?`
	res, err := r.db.ExecContext(ctx, q,
		rec.ProgressPercentage, rec.TimeSpentSeconds, rec.Completed,
		rec.CompletedAt, rec.UpdatedAt, rec.Version,
		rec.UserID, rec.LessonID, expected)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns every progress record of a user, most recently
// updated first. Used by the progress read endpoint.
func (r *ProgressRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.LessonProgress, error) {
	const q = "SELECT " + progressColumns + " FROM lesson_progress WHERE user_id=? ORDER BY updated_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.LessonProgress, 0)
	for rows.Next() {
		var p model.LessonProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.LessonID, &p.CourseID, &p.ProgressPercentage,
			&p.TimeSpentSeconds, &p.Completed, &p.StartedAt, &p.CompletedAt,
			&p.UpdatedAt, &p.Version); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

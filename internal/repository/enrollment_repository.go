package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/learning-platform/internal/model"
)

// EnrollmentRepo encapsulates queries against the enrollments table.
// The invariant "at most one active enrollment per (user, course)" is
// enforced by the conditional insert in Enroll.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo constructs an EnrollmentRepo with the provided DB handle.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Enroll creates an active enrollment unless one already exists. The
// existence check and the insert run as one statement so two concurrent
// enroll calls cannot both succeed. ErrAlreadyEnrolled is returned when
// the student already holds an active enrollment.
func (r *EnrollmentRepo) Enroll(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	const q = `INSERT INTO enrollments (user_id, course_id, status)
			   SELECT ?, ?, 'active' FROM DUAL
			   WHERE NOT EXISTS (
				   SELECT 1 FROM enrollments WHERE user_id=? AND course_id=? AND status='active'
			   )`
	res, err := r.db.ExecContext(ctx, q, userID, courseID, userID, courseID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrAlreadyEnrolled
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	const sel = "SELECT id,user_id,course_id,status,enrolled_at FROM enrollments WHERE id=?"
	var e model.Enrollment
	if err := r.db.QueryRowContext(ctx, sel, id).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.EnrolledAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// HasActive reports whether the user holds an active enrollment in the
// course. This is the precondition check for progress writes and
// course-scoped chat.
func (r *EnrollmentRepo) HasActive(ctx context.Context, userID, courseID uint64) (bool, error) {
	const q = "SELECT 1 FROM enrollments WHERE user_id=? AND course_id=? AND status='active' LIMIT 1"
	var one int
	err := r.db.QueryRowContext(ctx, q, userID, courseID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByUser returns all enrollments of a user, newest first.
func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Enrollment, error) {
	const q = `SELECT id,user_id,course_id,status,enrolled_at
			   FROM enrollments WHERE user_id=? ORDER BY enrolled_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Enrollment, 0)
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.EnrolledAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

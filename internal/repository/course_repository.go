package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/learning-platform/internal/model"
)

// CourseRepo encapsulates all queries against the courses table.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo constructs a CourseRepo with the provided DB handle.
func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

const courseColumns = "id,owner_id,title,description,level,active,created_at,updated_at"

func scanCourse(row *sql.Row) (*model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Level,
		&c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course and populates the generated ID and
// timestamp defaults on c.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	const q = "INSERT INTO courses (owner_id, title, description, level) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, c.OwnerID, c.Title, c.Description, c.Level)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = "SELECT " + courseColumns + " FROM courses WHERE id=?"
	got, err := scanCourse(r.db.QueryRowContext(ctx, sel, c.ID))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByID fetches a course regardless of active flag. Handlers decide
// whether an inactive course counts as present for their endpoint.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	const q = "SELECT " + courseColumns + " FROM courses WHERE id=?"
	return scanCourse(r.db.QueryRowContext(ctx, q, id))
}

// ListActive returns active courses for public browsing, optionally
// filtered by level and a case-insensitive title/description match.
func (r *CourseRepo) ListActive(ctx context.Context, level, query string) ([]*model.Course, error) {
	q := "SELECT " + courseColumns + " FROM courses WHERE active=1"
	args := []interface{}{}
	if level != "" {
		q += " AND level=?"
		args = append(args, level)
	}
	if query != "" {
		q += " AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)"
		like := "%" + strings.ToLower(query) + "%"
		args = append(args, like, like)
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Course, 0)
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Level,
			&c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a course. It returns
// ErrCourseNotFound when no row was affected.
func (r *CourseRepo) Update(ctx context.Context, id uint64, title, description, level string) error {
	const q = `UPDATE courses
			   SET title=?, description=?, level=?, updated_at=CURRENT_TIMESTAMP
			   WHERE id=?`
	res, err := r.db.ExecContext(ctx, q, title, description, level, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// SoftDelete marks a course inactive instead of removing the row, so
// historical enrollments and progress keep a valid parent.
func (r *CourseRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE courses SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=? AND active=1"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

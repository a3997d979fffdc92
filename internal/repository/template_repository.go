package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/learning-platform/internal/model"
)

// TemplateRepo reads course_templates. Templates are seeded out of band;
// only public ones are exposed without authentication.
type TemplateRepo struct {
	db *sql.DB
}

// NewTemplateRepo constructs a TemplateRepo with the provided DB handle.
func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

// ListPublic returns all templates flagged public, ordered by id.
func (r *TemplateRepo) ListPublic(ctx context.Context) ([]*model.CourseTemplate, error) {
	const q = `SELECT id,name,description,level,is_public,created_at
			   FROM course_templates WHERE is_public=1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.CourseTemplate, 0)
	for rows.Next() {
		var t model.CourseTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Level, &t.IsPublic, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package model

import "time"

// CourseTemplate is a starting layout teachers can base new courses on.
// Templates flagged public are readable without authentication.
type CourseTemplate struct {
	ID          uint64    // course_templates.id
	Name        string    // course_templates.name
	Description string    // course_templates.description
	Level       string    // course_templates.level
	IsPublic    bool      // course_templates.is_public
	CreatedAt   time.Time // course_templates.created_at
}

package model

import "time"

// Course is a teachable unit owned by a teacher (or admin). Deleting a
// course is a soft delete: Active flips to false and the row stays.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – users.id of the teacher who created the course.
//  Title       – course title.
//  Description – free-form description.
//  Level       – difficulty label (e.g. beginner, intermediate, advanced).
//  Active      – false once the course has been deleted.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Course struct {
	ID          uint64    // courses.id
	OwnerID     uint64    // courses.owner_id
	Title       string    // courses.title
	Description string    // courses.description
	Level       string    // courses.level
	Active      bool      // courses.active
	CreatedAt   time.Time // courses.created_at
	UpdatedAt   time.Time // courses.updated_at
}

// Lesson belongs to a course. Position orders lessons within the course.
type Lesson struct {
	ID        uint64    // lessons.id
	CourseID  uint64    // lessons.course_id
	Title     string    // lessons.title
	Content   string    // lessons.content
	Position  uint32    // lessons.position
	CreatedAt time.Time // lessons.created_at
}

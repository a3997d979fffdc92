package model

import "time"

// Enrollment statuses stored in enrollments.status.
const (
	EnrollmentActive    = "active"
	EnrollmentCancelled = "cancelled"
)

// Enrollment authorizes a student to consume a course's lessons and to
// report progress on them. At most one active row may exist per
// (user, course) pair; cancelled rows are kept for history.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – enrolled student.
//  CourseID   – course being consumed.
//  Status     – active or cancelled.
//  EnrolledAt – when the enrollment was created.
type Enrollment struct {
	ID         uint64    // enrollments.id
	UserID     uint64    // enrollments.user_id
	CourseID   uint64    // enrollments.course_id
	Status     string    // enrollments.status
	EnrolledAt time.Time // enrollments.enrolled_at
}

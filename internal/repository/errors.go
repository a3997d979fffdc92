// Package repository contains the data access layer: hand-written SQL over
// database/sql against MySQL. Sentinel errors defined here let handlers
// distinguish failure scenarios without parsing driver messages.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registering with an email already in use.
var ErrEmailExists = errors.New("email already exists")

// ErrCourseNotFound is returned when a course lookup finds no row.
var ErrCourseNotFound = errors.New("course not found")

// ErrLessonNotFound is returned when a lesson lookup finds no row.
var ErrLessonNotFound = errors.New("lesson not found")

// ErrAlreadyEnrolled is returned when a student already holds an active
// enrollment in the course.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062) on some unique index.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

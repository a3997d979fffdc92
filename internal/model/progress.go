package model

import "time"

// LessonProgress is the single durable record per (user, lesson) pair.
// Percentage is a snapshot the client overwrites; time spent only ever
// grows through accumulation of deltas; completion is monotonic and
// CompletedAt is never cleared once set, even if a later update reports
// completed=false.
//
// Version is the optimistic-concurrency token: every successful update
// increments it, and writers must name the version they read.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – student the record belongs to.
//  LessonID           – lesson being tracked; (UserID, LessonID) is unique.
//  CourseID           – course the lesson belongs to.
//  ProgressPercentage – snapshot 0–100.
//  TimeSpentSeconds   – accumulated viewing time, never decreases.
//  Completed          – monotonic completion flag.
//  StartedAt          – set once, on first creation.
//  CompletedAt        – set when Completed first turns true (nullable).
//  UpdatedAt          – last modification timestamp.
//  Version            – optimistic lock counter.
type LessonProgress struct {
	ID                 uint64     // lesson_progress.id
	UserID             uint64     // lesson_progress.user_id
	LessonID           uint64     // lesson_progress.lesson_id
	CourseID           uint64     // lesson_progress.course_id
	ProgressPercentage int        // lesson_progress.progress_percentage
	TimeSpentSeconds   int64      // lesson_progress.time_spent_seconds
	Completed          bool       // lesson_progress.completed
	StartedAt          time.Time  // lesson_progress.started_at
	CompletedAt        *time.Time // lesson_progress.completed_at (nullable)
	UpdatedAt          time.Time  // lesson_progress.updated_at
	Version            uint32     // lesson_progress.version
}

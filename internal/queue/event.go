// Package queue defines message payloads exchanged over the message broker
// and the background consumer processing them.
package queue

// LessonCompletedEvent is published when a progress reconciliation flips a
// lesson to completed for the first time. It carries enough information for
// downstream consumers (notifications, analytics) without querying the
// primary database.
type LessonCompletedEvent struct {
	UserID           uint64 `json:"user_id"`
	CourseID         uint64 `json:"course_id"`
	LessonID         uint64 `json:"lesson_id"`
	TimeSpentSeconds int64  `json:"time_spent_seconds"`
	CompletedAt      string `json:"completed_at"` // RFC3339 UTC
}

// LessonCompletedQueue is the broker queue name for completion events.
const LessonCompletedQueue = "lesson.completed"

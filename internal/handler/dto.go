// Package handler implements the HTTP endpoints. Request DTOs live next to
// their handlers; this file holds the response shapes, which decouple the
// wire format from the storage models.
package handler

import (
	"time"

	"github.com/iliyamo/learning-platform/internal/model"
)

type coursePart struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCoursePart(c *model.Course) coursePart {
	return coursePart{
		ID: c.ID, OwnerID: c.OwnerID, Title: c.Title,
		Description: c.Description, Level: c.Level,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func toCourseParts(cs []*model.Course) []coursePart {
	out := make([]coursePart, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCoursePart(c))
	}
	return out
}

type lessonPart struct {
	ID        uint64    `json:"id"`
	CourseID  uint64    `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  uint32    `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func toLessonPart(l *model.Lesson) lessonPart {
	return lessonPart{ID: l.ID, CourseID: l.CourseID, Title: l.Title,
		Content: l.Content, Position: l.Position, CreatedAt: l.CreatedAt}
}

func toLessonParts(ls []*model.Lesson) []lessonPart {
	out := make([]lessonPart, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLessonPart(l))
	}
	return out
}

type enrollmentPart struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	CourseID   uint64    `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func toEnrollmentPart(e *model.Enrollment) enrollmentPart {
	return enrollmentPart{ID: e.ID, UserID: e.UserID, CourseID: e.CourseID,
		Status: e.Status, EnrolledAt: e.EnrolledAt}
}

func toEnrollmentParts(es []*model.Enrollment) []enrollmentPart {
	out := make([]enrollmentPart, 0, len(es))
	for _, e := range es {
		out = append(out, toEnrollmentPart(e))
	}
	return out
}

type progressPart struct {
	ID                 uint64     `json:"id"`
	LessonID           uint64     `json:"lesson_id"`
	CourseID           uint64     `json:"course_id"`
	ProgressPercentage int        `json:"progress_percentage"`
	TimeSpentSeconds   int64      `json:"time_spent_seconds"`
	Completed          bool       `json:"completed"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toProgressPart(p *model.LessonProgress) progressPart {
	return progressPart{
		ID: p.ID, LessonID: p.LessonID, CourseID: p.CourseID,
		ProgressPercentage: p.ProgressPercentage,
		TimeSpentSeconds:   p.TimeSpentSeconds,
		Completed:          p.Completed,
		StartedAt:          p.StartedAt, CompletedAt: p.CompletedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProgressParts(ps []*model.LessonProgress) []progressPart {
	out := make([]progressPart, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProgressPart(p))
	}
	return out
}

type chatPart struct {
	ID          uint64    `json:"id"`
	SenderID    uint64    `json:"sender_id"`
	RecipientID *uint64   `json:"recipient_id"`
	CourseID    *uint64   `json:"course_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func toChatPart(m *model.ChatMessage) chatPart {
	return chatPart{ID: m.ID, SenderID: m.SenderID, RecipientID: m.RecipientID,
		CourseID: m.CourseID, Body: m.Body, CreatedAt: m.CreatedAt}
}

func toChatParts(ms []*model.ChatMessage) []chatPart {
	out := make([]chatPart, 0, len(ms))
	for _, m := range ms {
		out = append(out, toChatPart(m))
	}
	return out
}

type templatePart struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTemplateParts(ts []*model.CourseTemplate) []templatePart {
	out := make([]templatePart, 0, len(ts))
	for _, t := range ts {
		out = append(out, templatePart{ID: t.ID, Name: t.Name,
			Description: t.Description, Level: t.Level, CreatedAt: t.CreatedAt})
	}
	return out
}

package model

import "time"

// ChatMessage is either a direct message (RecipientID set) or a course
// room message (CourseID set); exactly one of the two is non-nil.
type ChatMessage struct {
	ID          uint64    // chat_messages.id
	SenderID    uint64    // chat_messages.sender_id
	RecipientID *uint64   // chat_messages.recipient_id (nullable)
	CourseID    *uint64   // chat_messages.course_id (nullable)
	Body        string    // chat_messages.body
	CreatedAt   time.Time // chat_messages.created_at
}

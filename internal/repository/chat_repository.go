package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/learning-platform/internal/model"
)

// ChatRepo persists chat_messages rows.
type ChatRepo struct {
	db *sql.DB
}

// NewChatRepo constructs a ChatRepo with the provided DB handle.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// Insert stores a message and populates its ID and timestamp.
func (r *ChatRepo) Insert(ctx context.Context, m *model.ChatMessage) error {
	const q = "INSERT INTO chat_messages (sender_id, recipient_id, course_id, body) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, m.SenderID, m.RecipientID, m.CourseID, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = "SELECT created_at FROM chat_messages WHERE id=?"
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt)
}

const chatColumns = "id,sender_id,recipient_id,course_id,body,created_at"

// ListDirect returns the two-way direct conversation between userID and
// otherID, oldest first.
func (r *ChatRepo) ListDirect(ctx context.Context, userID, otherID uint64) ([]*model.ChatMessage, error) {
	const q = `SELECT ` + chatColumns + ` FROM chat_messages
			   WHERE course_id IS NULL
				 AND ((sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?))
			   ORDER BY id`
	return r.list(ctx, q, userID, otherID, otherID, userID)
}

// ListByCourse returns all room messages of a course, oldest first.
func (r *ChatRepo) ListByCourse(ctx context.Context, courseID uint64) ([]*model.ChatMessage, error) {
	const q = "SELECT " + chatColumns + " FROM chat_messages WHERE course_id=? ORDER BY id"
	return r.list(ctx, q, courseID)
}

// ListForUser returns every message the user sent or received directly.
func (r *ChatRepo) ListForUser(ctx context.Context, userID uint64) ([]*model.ChatMessage, error) {
	const q = `SELECT ` + chatColumns + ` FROM chat_messages
			   WHERE sender_id=? OR recipient_id=? ORDER BY id`
	return r.list(ctx, q, userID, userID)
}

func (r *ChatRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.CourseID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
)

// MessageRepository manages persistence for direct messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert stores a new message and fills in its id and timestamp.
func (r *MessageRepository) Insert(ctx context.Context, msg *models.Message) error {
	msg.Timestamp = time.Now().UTC()
	msg.Read = false
	const query = `INSERT INTO messages (sender_id, receiver_id, content, timestamp, read)
        VALUES ($1, $2, $3, $4, FALSE) RETURNING id`
	if err := r.db.GetContext(ctx, &msg.ID, query, msg.SenderID, msg.ReceiverID, msg.Content, msg.Timestamp); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Inbox returns messages where the user is sender or receiver, newest
// first, capped at limit rows.
func (r *MessageRepository) Inbox(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	const query = `SELECT id, sender_id, receiver_id, content, timestamp, read FROM messages
        WHERE sender_id = $1 OR receiver_id = $1
        ORDER BY timestamp DESC, id DESC LIMIT $2`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, userID, limit); err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}
	return messages, nil
}

// Conversation returns the full exchange between two users in both
// directions, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	const query = `SELECT id, sender_id, receiver_id, content, timestamp, read FROM messages
        WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY timestamp ASC, id ASC`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB); err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return messages, nil
}

// MarkRead sets the read flag on a message, but only when the caller is
// its receiver. Returns the number of rows matched so the service can
// tell a missing message apart from a repeat call.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID int64, receiverID string) (int64, error) {
	const query = `UPDATE messages SET read = TRUE WHERE id = $1 AND receiver_id = $2`
	res, err := r.db.ExecContext(ctx, query, messageID, receiverID)
	if err != nil {
		return 0, fmt.Errorf("mark message read: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark message read: %w", err)
	}
	return rows, nil
}

// Exists reports whether a message row exists at all, used to
// distinguish a not-found markRead from one the caller may not touch.
func (r *MessageRepository) Exists(ctx context.Context, messageID int64) (bool, error) {
	var found bool
	const query = `SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`
	if err := r.db.GetContext(ctx, &found, query, messageID); err != nil {
		return false, fmt.Errorf("check message: %w", err)
	}
	return found, nil
}

package models

import "time"

// MaxMessageLength bounds message content after trimming.
const MaxMessageLength = 1000

// Message is a directed text message between two identities. Rows are
// immutable except for the read flag, which only the receiver may set.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Read       bool      `db:"read" json:"read"`
}

// MessageEvent is the payload published on the push channel when a
// message is created, and the frame emitted on the SSE stream.
type MessageEvent struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

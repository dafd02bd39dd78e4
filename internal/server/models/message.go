package models

import "time"

// Message is one append-only entry in a thread. Messages are immutable
// once created.
type Message struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// MessageInfo is a message with the sender's display name joined in.
type MessageInfo struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

// MessageNotification is the JSON payload published on a thread's
// pg_notify channel when a message is appended.
type MessageNotification struct {
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
}

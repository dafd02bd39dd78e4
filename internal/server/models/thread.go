package models

import "time"

// Thread is a conversation scoped to one post and an unordered pair of
// users. UserA < UserB always, so (PostID, UserA, UserB) is a unique key
// regardless of who initiated the conversation.
type Thread struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalPair orders two user ids so the lower one comes first.
func CanonicalPair(user1, user2 string) (string, string) {
	if user1 < user2 {
		return user1, user2
	}
	return user2, user1
}

// ContainsUser reports whether userID is one of the two participants.
func (t *Thread) ContainsUser(userID string) bool {
	return t.UserA == userID || t.UserB == userID
}

// OtherUser returns the participant that is not userID, or "" when userID
// is not part of the thread.
func (t *Thread) OtherUser(userID string) string {
	switch userID {
	case t.UserA:
		return t.UserB
	case t.UserB:
		return t.UserA
	default:
		return ""
	}
}

// ThreadInfo is a thread enriched with post and counterpart details for
// API responses.
type ThreadInfo struct {
	ID            string     `json:"id"`
	PostID        string     `json:"post_id"`
	PostTitle     string     `json:"post_title"`
	OtherUserID   string     `json:"other_user_id"`
	OtherUserName string     `json:"other_user_name"`
	LastMessage   *string    `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

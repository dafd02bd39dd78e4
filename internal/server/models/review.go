package models

import "time"

// Review types. A post review targets a post, a profile review targets
// another user's profile; the two target ids are mutually exclusive.
const (
	ReviewTypePost    = "post"
	ReviewTypeProfile = "profile"
)

type Review struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	ReviewType string    `json:"review_type"`
	PostID     *string   `json:"post_id,omitempty"`
	ProfileID  *string   `json:"profile_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	SenderName string `json:"sender_name,omitempty"`
}

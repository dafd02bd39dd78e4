package models

import "time"

// Post is a tutoring request or offer published by a user.
type Post struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"` // "request" or "offer"
	Subject     string    `json:"subject"`
	Price       int64     `json:"price"`
	Urgent      bool      `json:"urgent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// OwnerName is joined in from the users table for API responses.
	OwnerName string `json:"owner_name,omitempty"`
}

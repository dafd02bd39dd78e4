// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Salt         []byte    `json:"-"`
	// TokenVer is the per-user revocation counter. Bumping it invalidates
	// every refresh token issued with an older value.
	TokenVer  int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

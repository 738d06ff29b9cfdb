// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Username and email are unique across all
// users; PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

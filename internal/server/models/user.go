// Package models holds the server's persistence and wire types.
package models

import "time"

// User is a row of the users table. PasswordHash never leaves the server.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Credits      int64      `json:"credits"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"-"`
	LastLogin    *time.Time `json:"-"`
}

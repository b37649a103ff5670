// Package models defines client-side data models used by the ubadesk CLI.
package models

// User is the profile of the authenticated account as returned by the API.
// It is held in memory only and re-fetched on every start.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Credits int64  `json:"credits"`
	IsAdmin bool   `json:"is_admin"`
}

// Clone returns a copy of u, or nil when u is nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

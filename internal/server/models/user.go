// Package models holds the server-side records shared by repositories,
// services and the transport layer.
package models

import "time"

// User is the persisted identity record. HashedPassword never leaves the
// server; use Public to build anything that is sent to a client.
type User struct {
	ID             string
	Username       string
	HashedPassword string
	IsAdmin        bool
	Verified       bool
	Banned         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the client-facing view of a User. It has no password field.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Verified  bool      `json:"verified"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-facing view of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		Verified:  u.Verified,
		Banned:    u.Banned,
		CreatedAt: u.CreatedAt,
	}
}

// IsVerified reports whether u passes the verified trust level.
// Admins are treated as verified.
func (u User) IsVerified() bool {
	return u.Verified || u.IsAdmin
}

package model

import "time"

// User represents an authenticated customer or administrator.
// The APIToken is the opaque credential resolved by the auth middleware;
// issuing and rotating tokens is handled outside this service.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	APIToken  string    `json:"-" db:"api_token"`
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

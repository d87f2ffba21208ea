package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a row of the users table. The password digest is never
// serialized.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MarshalJSON adds the legacy "name" key, which mirrors username.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		plain
		Name string `json:"name"`
	}{plain(u), u.Username})
}

// Columns are the public user columns.
var Columns = []string{"id", "username", "email", "role", "created_at"}

// CredentialColumns add the password digest, for login only.
var CredentialColumns = []string{"id", "username", "email", "role", "created_at", "password"}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

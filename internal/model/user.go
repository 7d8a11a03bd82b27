package model

import "time"

// User data model. A nil *User stands for an anonymous viewer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// Authenticated reports whether u is a logged-in user.
func (u *User) Authenticated() bool {
	return u != nil && u.ID != 0
}

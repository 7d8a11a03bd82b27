package model

import "time"

// Article data model. CreatedAt is always UTC; listings order on it, newest first.
type Article struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"` // the author
	Author     string    `json:"author,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CategoryID int64     `json:"category_id"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

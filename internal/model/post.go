package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	Slug       string    `db:"slug" json:"slug"`
	Category   string    `db:"category" json:"category"`
	AuthorID   uuid.UUID `db:"author_id" json:"author_id"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
	Picture    *string   `db:"picture" json:"picture,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// PostDetails is a Post joined with its author's username for list/read views.
type PostDetails struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"`
	Slug           string    `db:"slug" json:"slug"`
	Category       string    `db:"category" json:"category"`
	AuthorID       uuid.UUID `db:"author_id" json:"author_id"`
	AuthorUsername string    `db:"author_username" json:"author_username"`
	IsApproved     bool      `db:"is_approved" json:"is_approved"`
	Picture        *string   `db:"picture" json:"picture,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CommentDetails is a Comment joined with author info and its like count.
type CommentDetails struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Content        string    `db:"content" json:"content"`
	AuthorID       uuid.UUID `db:"author_id" json:"author_id"`
	AuthorUsername string    `db:"author_username" json:"author_username"`
	AuthorEmail    string    `db:"author_email" json:"author_email"`
	PostID         uuid.UUID `db:"post_id" json:"post_id"`
	NumberOfLikes  int       `db:"number_of_likes" json:"number_of_likes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCommentLikesTable, downCreateCommentLikesTable)
}

func upCreateCommentLikesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE comment_likes (
	  comment_id UUID NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
	  user_id UUID NOT NULL REFERENCES users(id),
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  PRIMARY KEY (comment_id, user_id)
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateCommentLikesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS comment_likes;`)
	return err
}

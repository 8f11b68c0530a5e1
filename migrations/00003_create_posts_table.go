package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePostsTable, downCreatePostsTable)
}

func upCreatePostsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE posts (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  title TEXT NOT NULL,
	  content TEXT NOT NULL,
	  slug TEXT NOT NULL DEFAULT '',
	  category TEXT NOT NULL DEFAULT 'uncategorized',
	  author_id UUID NOT NULL REFERENCES users(id),
	  is_approved BOOLEAN NOT NULL DEFAULT FALSE,
	  picture TEXT,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_posts_created_at ON posts (created_at);
	CREATE INDEX idx_posts_author_id ON posts (author_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreatePostsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS posts;`)
	return err
}

package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCategoriesTable, downCreateCategoriesTable)
}

func upCreateCategoriesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE categories (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  name TEXT UNIQUE NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	INSERT INTO categories (name) VALUES ('uncategorized');
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateCategoriesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS categories;`)
	return err
}

package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsersTable, downCreateUsersTable)
}

func upCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE users (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  username TEXT UNIQUE NOT NULL,
	  email TEXT UNIQUE NOT NULL,
	  password_hash TEXT,
	  name TEXT,
	  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	  google_id TEXT,
	  picture TEXT,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  CHECK (password_hash IS NOT NULL OR google_id IS NOT NULL)
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users;`)
	return err
}

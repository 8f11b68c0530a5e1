package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"blog-api/internal/model"
	repo "blog-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func strPtr(s string) *string { return &s }

func TestPostgresUserRepository_Create(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (username, email, password_hash, name, role, google_id, picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`)).
		WithArgs("alice", "alice@example.com", "hash", nil, "user", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	nid, err := r.Create(context.Background(), &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: strPtr("hash"),
		Role:         model.RoleUser,
	})
	require.NoError(t, err)
	require.Equal(t, id, nid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByEmail_Success(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "name", "role", "google_id", "picture", "created_at", "updated_at"}).
		AddRow(id, "alice", "alice@example.com", "hash", nil, "user", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash, name, role, google_id, picture, created_at, updated_at FROM users WHERE email = $1`)).
		WithArgs("alice@example.com").WillReturnRows(rows)

	u, err := r.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "alice@example.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByUsername_NoRows(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash, name, role, google_id, picture, created_at, updated_at FROM users WHERE username = $1`)).
		WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := r.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Update_OnlySetFields(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET name = $1, updated_at = now() WHERE id = $2`)).
		WithArgs("Alice", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Update(context.Background(), &model.User{ID: id, Name: strPtr("Alice")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Update_NothingToDo(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(sqlxDB)

	err := r.Update(context.Background(), &model.User{ID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

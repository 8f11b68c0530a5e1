package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog-api/internal/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, name string) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type postgresCategoryRepository struct {
	db *sqlx.DB
}

func NewPostgresCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	query := `SELECT id, name, created_at, updated_at FROM categories ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []model.Category{}
	}

	return categories, nil
}

func (r *postgresCategoryRepository) Create(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at, updated_at`
	err := r.db.GetContext(ctx, &category, query, name)

	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, id uuid.UUID, name string) (*model.Category, error) {
	var category model.Category
	query := `
		UPDATE categories SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, name, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &category, query, name, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &category, nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog-api/internal/model"
)

type PaginationMeta struct {
	CurrentPage    int `json:"current_page"`
	TotalPages     int `json:"total_pages"`
	TotalItems     int `json:"total_items"`
	PerPage        int `json:"per_page"`
	LastMonthItems int `json:"last_month_items"`
}

type PaginatedPosts struct {
	Data []model.PostDetails `json:"data"`
	Meta PaginationMeta      `json:"meta"`
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindDetailsByID(ctx context.Context, id uuid.UUID) (*model.PostDetails, error)
	List(ctx context.Context, search string, sortAsc bool, page int, limit int) (*PaginatedPosts, error)
	Update(ctx context.Context, post *model.Post) error
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresPostRepository struct {
	db *sqlx.DB
}

func NewPostgresPostRepository(db *sqlx.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

func (r *postgresPostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	query := `
		INSERT INTO posts (title, content, slug, category, author_id, picture)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_approved, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		post.Title, post.Content, post.Slug, post.Category, post.AuthorID, post.Picture,
	)
	err := row.Scan(&post.ID, &post.IsApproved, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postgresPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	query := `SELECT id, title, content, slug, category, author_id, is_approved, picture, created_at, updated_at FROM posts WHERE id = $1`
	err := r.db.GetContext(ctx, &post, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &post, nil
}

func (r *postgresPostRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*model.PostDetails, error) {
	var post model.PostDetails
	query := `
		SELECT p.id, p.title, p.content, p.slug, p.category, p.author_id,
			u.username AS author_username,
			p.is_approved, p.picture, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1
	`
	err := r.db.GetContext(ctx, &post, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &post, nil
}

func (r *postgresPostRepository) List(ctx context.Context, search string, sortAsc bool, page int, limit int) (*PaginatedPosts, error) {
	offset := (page - 1) * limit

	baseQuery := `
		SELECT p.id, p.title, p.content, p.slug, p.category, p.author_id,
			COALESCE(u.username, 'unknown') AS author_username,
			p.is_approved, p.picture, p.created_at, p.updated_at
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
	`

	args := []interface{}{}
	argId := 1
	if search != "" {
		baseQuery += fmt.Sprintf(" WHERE (p.title ILIKE $%d OR p.content ILIKE $%d)", argId, argId)
		args = append(args, "%"+search+"%")
		argId++
	}

	countQuery := "SELECT COUNT(*) FROM (" + baseQuery + ") AS count_query"
	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, countQuery, args...)
	if err != nil {
		return nil, err
	}

	direction := "DESC"
	if sortAsc {
		direction = "ASC"
	}

	baseQuery += fmt.Sprintf(" ORDER BY p.created_at %s LIMIT $%d OFFSET $%d", direction, argId, argId+1)
	args = append(args, limit, offset)

	var posts []model.PostDetails
	err = r.db.SelectContext(ctx, &posts, baseQuery, args...)
	if err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []model.PostDetails{}
	}

	var lastMonth int
	err = r.db.GetContext(ctx, &lastMonth, `SELECT COUNT(*) FROM posts WHERE created_at >= NOW() - INTERVAL '1 month'`)
	if err != nil {
		return nil, err
	}

	totalPages := (totalItems + limit - 1) / limit

	return &PaginatedPosts{
		Data: posts,
		Meta: PaginationMeta{
			CurrentPage:    page,
			TotalPages:     totalPages,
			TotalItems:     totalItems,
			PerPage:        limit,
			LastMonthItems: lastMonth,
		},
	}, nil
}

func (r *postgresPostRepository) Update(ctx context.Context, post *model.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, slug = $3, category = $4, picture = $5, updated_at = now()
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		post.Title, post.Content, post.Slug, post.Category, post.Picture, post.ID,
	)
	return err
}

func (r *postgresPostRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	query := `UPDATE posts SET is_approved = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, approved, id)
	return err
}

func (r *postgresPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog-api/internal/model"
)

type PaginatedComments struct {
	Data []model.CommentDetails `json:"data"`
	Meta PaginationMeta         `json:"meta"`
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.CommentDetails, error)
	List(ctx context.Context, search string, sortAsc bool, page int, limit int) (*PaginatedComments, error)
	Update(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (liked bool, likes int, err error)
}

type postgresCommentRepository struct {
	db *sqlx.DB
}

func NewPostgresCommentRepository(db *sqlx.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	query := `
		INSERT INTO comments (content, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, comment.Content, comment.AuthorID, comment.PostID)
	err := row.Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (r *postgresCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	query := `SELECT id, content, author_id, post_id, created_at, updated_at FROM comments WHERE id = $1`
	err := r.db.GetContext(ctx, &comment, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &comment, nil
}

func (r *postgresCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.CommentDetails, error) {
	var comments []model.CommentDetails
	query := `
		SELECT c.id, c.content, c.author_id,
			u.username AS author_username, u.email AS author_email,
			c.post_id,
			(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS number_of_likes,
			c.created_at, c.updated_at
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
	`
	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []model.CommentDetails{}
	}

	return comments, nil
}

func (r *postgresCommentRepository) List(ctx context.Context, search string, sortAsc bool, page int, limit int) (*PaginatedComments, error) {
	offset := (page - 1) * limit

	baseQuery := `
		SELECT c.id, c.content, c.author_id,
			COALESCE(u.username, 'unknown') AS author_username,
			COALESCE(u.email, '') AS author_email,
			c.post_id,
			(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS number_of_likes,
			c.created_at, c.updated_at
		FROM comments c
		LEFT JOIN users u ON c.author_id = u.id
	`

	args := []interface{}{}
	argId := 1
	if search != "" {
		baseQuery += fmt.Sprintf(" WHERE (c.content ILIKE $%d OR u.username ILIKE $%d)", argId, argId)
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

	baseQuery += fmt.Sprintf(" ORDER BY c.created_at %s LIMIT $%d OFFSET $%d", direction, argId, argId+1)
	args = append(args, limit, offset)

	var comments []model.CommentDetails
	err = r.db.SelectContext(ctx, &comments, baseQuery, args...)
	if err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []model.CommentDetails{}
	}

	var lastMonth int
	err = r.db.GetContext(ctx, &lastMonth, `SELECT COUNT(*) FROM comments WHERE created_at >= NOW() - INTERVAL '1 month'`)
	if err != nil {
		return nil, err
	}

	totalPages := (totalItems + limit - 1) / limit

	return &PaginatedComments{
		Data: comments,
		Meta: PaginationMeta{
			CurrentPage:    page,
			TotalPages:     totalPages,
			TotalItems:     totalItems,
			PerPage:        limit,
			LastMonthItems: lastMonth,
		},
	}, nil
}

func (r *postgresCommentRepository) Update(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	var comment model.Comment
	query := `
		UPDATE comments SET content = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, content, author_id, post_id, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &comment, query, content, id)

	if err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ToggleLike removes the user's like if present, otherwise adds it, then
// reports the resulting state and count.
func (r *postgresCommentRepository) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`,
		commentID, userID,
	)
	if err != nil {
		return false, 0, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	liked := false
	if removed == 0 {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)`,
			commentID, userID,
		)
		if err != nil {
			return false, 0, err
		}
		liked = true
	}

	var likes int
	err = r.db.GetContext(ctx, &likes, `SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`, commentID)
	if err != nil {
		return false, 0, err
	}

	return liked, likes, nil
}

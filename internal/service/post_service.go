package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"blog-api/internal/events"
	"blog-api/internal/model"
	"blog-api/internal/repository"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("not authorized to modify this post")
)

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify turns a title into a URL slug: spaces become hyphens, everything
// outside [a-z0-9-] becomes a hyphen.
func Slugify(title string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	return slugStrip.ReplaceAllString(slug, "-")
}

type PostInput struct {
	Title    string
	Content  string
	Category string
	Picture  *string
}

type PostService interface {
	ListPosts(ctx context.Context, search, sort string, page, limit int) (*repository.PaginatedPosts, error)
	GetPost(ctx context.Context, id uuid.UUID) (*model.PostDetails, error)
	CreatePost(ctx context.Context, authorID uuid.UUID, input PostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, id, authorID uuid.UUID, input PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id, authorID uuid.UUID) error
	ApprovePost(ctx context.Context, id uuid.UUID) (*model.Post, error)
}

type postService struct {
	postRepo  repository.PostRepository
	publisher events.Publisher
}

func NewPostService(postRepo repository.PostRepository, publisher events.Publisher) PostService {
	return &postService{postRepo: postRepo, publisher: publisher}
}

func (s *postService) ListPosts(ctx context.Context, search, sort string, page, limit int) (*repository.PaginatedPosts, error) {
	return s.postRepo.List(ctx, search, sort == "asc", page, limit)
}

func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*model.PostDetails, error) {
	post, err := s.postRepo.FindDetailsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, input PostInput) (*model.Post, error) {
	category := input.Category
	if category == "" {
		category = "uncategorized"
	}

	post := &model.Post{
		Title:    input.Title,
		Content:  input.Content,
		Slug:     Slugify(input.Title),
		Category: category,
		AuthorID: authorID,
		Picture:  input.Picture,
	}

	created, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	go s.publisher.PublishPostCreated(created)

	return created, nil
}

func (s *postService) UpdatePost(ctx context.Context, id, authorID uuid.UUID, input PostInput) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != authorID {
		return nil, ErrNotPostAuthor
	}

	post.Title = input.Title
	post.Content = input.Content
	post.Slug = Slugify(input.Title)
	if input.Category != "" {
		post.Category = input.Category
	}
	if input.Picture != nil {
		post.Picture = input.Picture
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id, authorID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != authorID {
		return ErrNotPostAuthor
	}

	return s.postRepo.Delete(ctx, id)
}

func (s *postService) ApprovePost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if err := s.postRepo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}

	post.IsApproved = true

	return post, nil
}

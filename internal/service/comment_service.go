package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"blog-api/internal/events"
	"blog-api/internal/model"
	"blog-api/internal/repository"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("not authorized to modify this comment")
)

type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type CommentService interface {
	AddComment(ctx context.Context, postID, authorID uuid.UUID, content string) (*model.Comment, error)
	ListCommentsForPost(ctx context.Context, postID uuid.UUID) ([]model.CommentDetails, error)
	ListComments(ctx context.Context, search, sort string, page, limit int) (*repository.PaginatedComments, error)
	UpdateComment(ctx context.Context, id, authorID uuid.UUID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id, authorID uuid.UUID) error
	LikeComment(ctx context.Context, id, userID uuid.UUID) (*LikeResult, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	publisher   events.Publisher
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, publisher events.Publisher) CommentService {
	return &commentService{commentRepo: commentRepo, postRepo: postRepo, publisher: publisher}
}

func (s *commentService) AddComment(ctx context.Context, postID, authorID uuid.UUID, content string) (*model.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.Comment{
		Content:  content,
		AuthorID: authorID,
		PostID:   postID,
	}

	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	go s.publisher.PublishCommentCreated(created)

	return created, nil
}

func (s *commentService) ListCommentsForPost(ctx context.Context, postID uuid.UUID) ([]model.CommentDetails, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *commentService) ListComments(ctx context.Context, search, sort string, page, limit int) (*repository.PaginatedComments, error) {
	return s.commentRepo.List(ctx, search, sort == "asc", page, limit)
}

func (s *commentService) UpdateComment(ctx context.Context, id, authorID uuid.UUID, content string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.AuthorID != authorID {
		return nil, ErrNotCommentAuthor
	}

	return s.commentRepo.Update(ctx, id, content)
}

func (s *commentService) DeleteComment(ctx context.Context, id, authorID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != authorID {
		return ErrNotCommentAuthor
	}

	return s.commentRepo.Delete(ctx, id)
}

func (s *commentService) LikeComment(ctx context.Context, id, userID uuid.UUID) (*LikeResult, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	liked, likes, err := s.commentRepo.ToggleLike(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{Liked: liked, Likes: likes}, nil
}

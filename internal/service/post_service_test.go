package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"blog-api/internal/model"
	"blog-api/internal/repository"
	"blog-api/internal/service"
)

type fakePostRepo struct {
	posts   map[uuid.UUID]*model.Post
	deleted []uuid.UUID
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uuid.UUID]*model.Post{}}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	post.ID = uuid.New()
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return f.posts[id], nil
}

func (f *fakePostRepo) FindDetailsByID(ctx context.Context, id uuid.UUID) (*model.PostDetails, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	return &model.PostDetails{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		Slug:       post.Slug,
		Category:   post.Category,
		AuthorID:   post.AuthorID,
		IsApproved: post.IsApproved,
		Picture:    post.Picture,
	}, nil
}

func (f *fakePostRepo) List(ctx context.Context, search string, sortAsc bool, page, limit int) (*repository.PaginatedPosts, error) {
	return &repository.PaginatedPosts{Data: []model.PostDetails{}}, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	if post, ok := f.posts[id]; ok {
		post.IsApproved = approved
	}
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.posts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// capturePublisher records published events so the async publish can be
// asserted without a broker.
type capturePublisher struct {
	mu       sync.Mutex
	posts    []*model.Post
	comments []*model.Comment
}

func (p *capturePublisher) PublishPostCreated(post *model.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post)
	return nil
}

func (p *capturePublisher) PublishCommentCreated(comment *model.Comment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments = append(p.comments, comment)
	return nil
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Go 1.25 Released!", "go-1-25-released-"},
		{"  Spaces   Everywhere  ", "spaces-everywhere"},
		{"already-a-slug", "already-a-slug"},
		{"ALL CAPS", "all-caps"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, service.Slugify(tc.title), "title %q", tc.title)
	}
}

func TestPostService_CreatePost_DefaultsCategory(t *testing.T) {
	repo := newFakePostRepo()
	s := service.NewPostService(repo, &capturePublisher{})

	post, err := s.CreatePost(context.Background(), uuid.New(), service.PostInput{
		Title:   "My First Post",
		Content: "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "uncategorized", post.Category)
	require.Equal(t, "my-first-post", post.Slug)
	require.False(t, post.IsApproved)
}

func TestPostService_UpdatePost_RejectsNonAuthor(t *testing.T) {
	repo := newFakePostRepo()
	s := service.NewPostService(repo, &capturePublisher{})

	author := uuid.New()
	post, err := s.CreatePost(context.Background(), author, service.PostInput{Title: "Mine", Content: "x"})
	require.NoError(t, err)

	_, err = s.UpdatePost(context.Background(), post.ID, uuid.New(), service.PostInput{Title: "Stolen", Content: "y"})
	require.ErrorIs(t, err, service.ErrNotPostAuthor)

	kept, err := s.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Equal(t, "Mine", kept.Title)
}

func TestPostService_UpdatePost_ReslugsTitle(t *testing.T) {
	repo := newFakePostRepo()
	s := service.NewPostService(repo, &capturePublisher{})

	author := uuid.New()
	post, err := s.CreatePost(context.Background(), author, service.PostInput{Title: "Old Title", Content: "x"})
	require.NoError(t, err)

	updated, err := s.UpdatePost(context.Background(), post.ID, author, service.PostInput{Title: "New Title", Content: "x"})
	require.NoError(t, err)
	require.Equal(t, "new-title", updated.Slug)
}

func TestPostService_DeletePost_RejectsNonAuthor(t *testing.T) {
	repo := newFakePostRepo()
	s := service.NewPostService(repo, &capturePublisher{})

	author := uuid.New()
	post, err := s.CreatePost(context.Background(), author, service.PostInput{Title: "Mine", Content: "x"})
	require.NoError(t, err)

	err = s.DeletePost(context.Background(), post.ID, uuid.New())
	require.ErrorIs(t, err, service.ErrNotPostAuthor)
	require.Empty(t, repo.deleted)

	require.NoError(t, s.DeletePost(context.Background(), post.ID, author))
	require.Equal(t, []uuid.UUID{post.ID}, repo.deleted)
}

func TestPostService_ApprovePost(t *testing.T) {
	repo := newFakePostRepo()
	s := service.NewPostService(repo, &capturePublisher{})

	post, err := s.CreatePost(context.Background(), uuid.New(), service.PostInput{Title: "Pending", Content: "x"})
	require.NoError(t, err)
	require.False(t, post.IsApproved)

	approved, err := s.ApprovePost(context.Background(), post.ID)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)

	_, err = s.ApprovePost(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestPostService_GetPost_NotFound(t *testing.T) {
	s := service.NewPostService(newFakePostRepo(), &capturePublisher{})

	_, err := s.GetPost(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrPostNotFound)
}

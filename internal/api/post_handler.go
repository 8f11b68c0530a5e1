package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blog-api/internal/service"
)

type PostHandler struct {
	postService service.PostService
	validate    *validator.Validate
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
		validate:    validator.New(),
	}
}

type PostRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Category string  `json:"category"`
	Picture  *string `json:"picture,omitempty" validate:"omitempty,url"`
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	search := c.Query("q")
	sort := c.Query("sort", "desc")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	result, err := h.postService.ListPosts(c.Context(), search, sort, page, limit)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing posts", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch posts"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID format"})
	}

	post, err := h.postService.GetPost(c.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch post"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"post": post})
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	var request PostRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	post, err := h.postService.CreatePost(c.Context(), claims.UserID, service.PostInput{
		Title:    request.Title,
		Content:  request.Content,
		Category: request.Category,
		Picture:  request.Picture,
	})
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error creating post", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create post"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID format"})
	}

	var request PostRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	post, err := h.postService.UpdatePost(c.Context(), postID, claims.UserID, service.PostInput{
		Title:    request.Title,
		Content:  request.Content,
		Category: request.Category,
		Picture:  request.Picture,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		case errors.Is(err, service.ErrNotPostAuthor):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update post"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"post": post})
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID format"})
	}

	err = h.postService.DeletePost(c.Context(), postID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		case errors.Is(err, service.ErrNotPostAuthor):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete post"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Post deleted successfully"})
}

func (h *PostHandler) ApprovePost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID format"})
	}

	post, err := h.postService.ApprovePost(c.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not approve post"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"post": post})
}

package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blog-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	validate       *validator.Validate
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validate:       validator.New(),
	}
}

type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *CommentHandler) AddComment(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID format"})
	}

	var request CommentRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	comment, err := h.commentService.AddComment(c.Context(), postID, claims.UserID, request.Content)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error adding comment", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add comment"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

func (h *CommentHandler) GetCommentsForPost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post ID format"})
	}

	comments, err := h.commentService.ListCommentsForPost(c.Context(), postID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch comments"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"comments": comments})
}

func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
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

	result, err := h.commentService.ListComments(c.Context(), search, sort, page, limit)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing comments", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch comments"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid comment ID format"})
	}

	var request CommentRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	comment, err := h.commentService.UpdateComment(c.Context(), commentID, claims.UserID, request.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
		case errors.Is(err, service.ErrNotCommentAuthor):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update comment"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"comment": comment})
}

func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid comment ID format"})
	}

	err = h.commentService.DeleteComment(c.Context(), commentID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
		case errors.Is(err, service.ErrNotCommentAuthor):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete comment"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) LikeComment(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid comment ID format"})
	}

	result, err := h.commentService.LikeComment(c.Context(), commentID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not like comment"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

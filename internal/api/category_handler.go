package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blog-api/internal/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validate        *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        validator.New(),
	}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListCategories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch categories"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categories": categories})
}

func (h *CategoryHandler) AddCategory(c *fiber.Ctx) error {
	var request CategoryRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	category, err := h.categoryService.AddCategory(c.Context(), request.Name)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateCategory) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Category already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create category"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": category})
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID format"})
	}

	var request CategoryRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	category, err := h.categoryService.UpdateCategory(c.Context(), categoryID, request.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		case errors.Is(err, service.ErrDuplicateCategory):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Category already exists"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update category"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"category": category})
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID format"})
	}

	err = h.categoryService.DeleteCategory(c.Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete category"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Category deleted successfully"})
}

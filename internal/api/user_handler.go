package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blog-api/internal/s3"
	"blog-api/internal/service"
)

type UserHandler struct {
	userService   service.UserService
	filePresigner *s3.FilePresigner
	validate      *validator.Validate
}

func NewUserHandler(userService service.UserService, presigner *s3.FilePresigner) *UserHandler {
	return &UserHandler{
		userService:   userService,
		filePresigner: presigner,
		validate:      validator.New(),
	}
}

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Picture  *string `json:"picture,omitempty" validate:"omitempty,url"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	user, err := h.userService.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch profile"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	var request UpdateProfileRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	user, err := h.userService.UpdateProfile(c.Context(), claims.UserID, service.UpdateProfileInput{
		Name:     request.Name,
		Picture:  request.Picture,
		Password: request.Password,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

func (h *UserHandler) GetAvatarUploadURL(c *fiber.Ctx) error {
	claims, ok := IdentityFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
	}

	objectKey := "user-avatars/" + claims.UserID.String() + "/" + uuid.New().String() + ".jpg"

	uploadURL, err := h.filePresigner.GeneratePresignedUploadURL(objectKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate upload URL"})
	}

	return c.JSON(fiber.Map{
		"upload_url":      uploadURL,
		"final_image_url": h.filePresigner.PublicURL(objectKey),
	})
}

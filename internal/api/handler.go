package api

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blog-api/internal/config"
	"blog-api/internal/oauth"
	"blog-api/internal/service"
	"blog-api/internal/token"
)

type AuthHandler struct {
	authService service.AuthService
	tokens      *token.Manager
	provider    *oauth.GoogleProvider
	cfg         *config.Config
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService, tokens *token.Manager, provider *oauth.GoogleProvider, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		provider:    provider,
		cfg:         cfg,
		validate:    validator.New(),
	}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// validationDetails flattens validator errors into one message per violated
// field so clients see every failure at once.
func validationDetails(err error) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters long", field, fe.Param()))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email address", field))
		case "url":
			details = append(details, fmt.Sprintf("%s must be a valid URL", field))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}

	return details
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	user, err := h.authService.Register(c.Context(), request.Username, request.Email, request.Password, request.Name)

	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email or username already exists"})
		}

		slog.ErrorContext(c.UserContext(), "Error registering user", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register user"})
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not issue token"})
	}
	h.tokens.AttachCookie(c, signed)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": validationDetails(err)})
	}

	user, err := h.authService.Login(c.Context(), request.Credential, request.Password)

	if err != nil {
		// One message for both unknown-user and bad-password outcomes, so
		// the response does not reveal whether the account exists.
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}

		slog.ErrorContext(c.UserContext(), "Error logging in", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not log in"})
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not issue token"})
	}
	h.tokens.AttachCookie(c, signed)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome back %s", user.Username),
		"user":    user,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.tokens.ClearCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) GoogleAuthURL(c *fiber.Ctx) error {
	state := uuid.New().String()
	url := h.provider.AuthCodeURL(state)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Google auth URL generated successfully",
		"url":     url,
	})
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing authorization code"})
	}

	info, err := h.provider.Authenticate(c.Context(), code)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "OAuth callback failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Google authentication failed"})
	}

	user, err := h.authService.OAuthLogin(c.Context(), info)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "OAuth login failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not log in with Google"})
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not issue token"})
	}
	h.tokens.AttachCookie(c, signed)

	return c.Redirect(h.cfg.FrontendOrigin, fiber.StatusFound)
}

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"blog-api/internal/api"
	"blog-api/internal/model"
	"blog-api/internal/token"
)

func newProtectedApp(tokens *token.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/private", api.AuthMiddleware(tokens), func(c *fiber.Ctx) error {
		claims, ok := api.IdentityFromCtx(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"username": claims.Username, "role": claims.Role})
	})
	app.Get("/admin", api.AuthMiddleware(tokens), api.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func issueFor(t *testing.T, tokens *token.Manager, role string) string {
	t.Helper()
	u := testUser()
	u.Role = role
	signed, err := tokens.Issue(u)
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	app := newProtectedApp(tokens)

	resp, body := doJSON(t, app, fiber.MethodGet, "/private", "")

	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Missing access token", body["error"])
}

func TestAuthMiddleware_AcceptsCookie(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	app := newProtectedApp(tokens)

	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: issueFor(t, tokens, model.RoleUser)})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_AcceptsBearerHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	app := newProtectedApp(tokens)

	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, model.RoleUser))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	issuer := token.NewManager("test-secret", -time.Minute)
	app := newProtectedApp(token.NewManager("test-secret", time.Hour))

	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, issuer, model.RoleUser))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	other := token.NewManager("other-secret", time.Hour)
	app := newProtectedApp(token.NewManager("test-secret", time.Hour))

	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, other, model.RoleUser))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_ForbidsNonAdmin(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	app := newProtectedApp(tokens)

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, model.RoleUser))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_AllowsAdmin(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	app := newProtectedApp(tokens)

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, model.RoleAdmin))

	resp, err := app.Test(req, -1)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, err)
}

func TestRequireRole_WithoutAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/orphan", api.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, body := doJSON(t, app, fiber.MethodGet, "/orphan", "")

	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Missing access token", body["error"])
}

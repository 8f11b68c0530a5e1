package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"blog-api/internal/api"
	"blog-api/internal/config"
	"blog-api/internal/model"
	"blog-api/internal/oauth"
	"blog-api/internal/service"
	"blog-api/internal/token"
)

type fakeAuthService struct {
	registerUser  *model.User
	registerErr   error
	registerCalls int

	loginUser *model.User
	loginErr  error

	oauthUser *model.User
	oauthErr  error
}

func (f *fakeAuthService) Register(ctx context.Context, username, email, password, name string) (*model.User, error) {
	f.registerCalls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerUser, nil
}

func (f *fakeAuthService) Login(ctx context.Context, credential, password string) (*model.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginUser, nil
}

func (f *fakeAuthService) OAuthLogin(ctx context.Context, info *oauth.UserInfo) (*model.User, error) {
	if f.oauthErr != nil {
		return nil, f.oauthErr
	}
	return f.oauthUser, nil
}

func testUser() *model.User {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	return &model.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: &hash,
		Role:         model.RoleUser,
	}
}

func newAuthApp(svc service.AuthService, provider *oauth.GoogleProvider, cfg *config.Config) (*fiber.App, *token.Manager) {
	if cfg == nil {
		cfg = &config.Config{FrontendOrigin: "http://localhost:3000"}
	}
	tokens := token.NewManager("test-secret", time.Hour)
	handler := api.NewAuthHandler(svc, tokens, provider, cfg)

	app := fiber.New()
	auth := app.Group("/api/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/google/url", handler.GoogleAuthURL)
	auth.Get("/google", handler.GoogleCallback)

	return app, tokens
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}

	return resp, parsed
}

func accessTokenCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == token.CookieName {
			return c
		}
	}
	return nil
}

func TestRegister_ValidationListsEveryViolatedField(t *testing.T) {
	svc := &fakeAuthService{}
	app, _ := newAuthApp(svc, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register", `{"username":"ab","email":"not-an-email"}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid input", body["error"])

	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.ElementsMatch(t, []any{
		"username must be at least 3 characters long",
		"email must be a valid email address",
		"password is required",
	}, details)
	require.Zero(t, svc.registerCalls, "nothing should be written on validation failure")
}

func TestRegister_Success_SetsCookieAndHidesHash(t *testing.T) {
	svc := &fakeAuthService{registerUser: testUser()}
	app, tokens := newAuthApp(svc, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "User registered successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "alice", user["username"])
	require.NotContains(t, user, "password_hash")
	require.NotContains(t, user, "google_id")

	cookie := accessTokenCookie(resp)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	claims, err := tokens.Verify(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	svc := &fakeAuthService{registerErr: service.ErrDuplicateUser}
	app, _ := newAuthApp(svc, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.Equal(t, "Email or username already exists", body["error"])
	require.Nil(t, accessTokenCookie(resp))
}

func TestLogin_Success(t *testing.T) {
	svc := &fakeAuthService{loginUser: testUser()}
	app, _ := newAuthApp(svc, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"credential":"alice","password":"secret123"}`)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Welcome back alice", body["message"])
	require.NotNil(t, accessTokenCookie(resp))
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	cases := map[string]error{
		"unknown user":   service.ErrUserNotFound,
		"wrong password": service.ErrInvalidPassword,
	}
	for name, loginErr := range cases {
		t.Run(name, func(t *testing.T) {
			app, _ := newAuthApp(&fakeAuthService{loginErr: loginErr}, nil, nil)

			resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login",
				`{"credential":"alice","password":"whatever"}`)

			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			require.Equal(t, "Invalid credentials", body["error"])
			require.Nil(t, accessTokenCookie(resp))
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	app, _ := newAuthApp(&fakeAuthService{}, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login", `{}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.ElementsMatch(t, []any{"credential is required", "password is required"}, details)
}

func TestLogout_ClearsCookie(t *testing.T) {
	app, _ := newAuthApp(&fakeAuthService{}, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/logout", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Logged out successfully", body["message"])

	cookie := accessTokenCookie(resp)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.True(t, cookie.Expires.Before(time.Now()))
}

func TestGoogleAuthURL(t *testing.T) {
	cfg := &config.Config{
		GoogleClientID:    "client-123",
		GoogleRedirectURL: "http://localhost:5000/api/auth/google",
		GoogleAuthURL:     "https://accounts.google.com/o/oauth2/auth",
		FrontendOrigin:    "http://localhost:3000",
	}
	app, _ := newAuthApp(&fakeAuthService{}, oauth.NewGoogleProvider(cfg), cfg)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/auth/google/url", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	url, ok := body["url"].(string)
	require.True(t, ok)
	require.Contains(t, url, "client_id=client-123")
	require.Contains(t, url, "state=")
	require.Contains(t, url, "prompt=consent")
}

func TestGoogleCallback_MissingCode(t *testing.T) {
	app, _ := newAuthApp(&fakeAuthService{}, nil, nil)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/auth/google", "")

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Missing authorization code", body["error"])
}

func TestGoogleCallback_RedirectsToFrontend(t *testing.T) {
	fakeGoogle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer"}`))
		case "/userinfo":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"sub":"google-sub-123","email":"alice@example.com","name":"Alice"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer fakeGoogle.Close()

	cfg := &config.Config{
		GoogleClientID:     "client-123",
		GoogleClientSecret: "shhh",
		GoogleRedirectURL:  "http://localhost:5000/api/auth/google",
		GoogleAuthURL:      fakeGoogle.URL + "/auth",
		GoogleTokenURL:     fakeGoogle.URL + "/token",
		GoogleUserInfoURL:  fakeGoogle.URL + "/userinfo",
		FrontendOrigin:     "http://localhost:3000",
	}
	svc := &fakeAuthService{oauthUser: testUser()}
	app, _ := newAuthApp(svc, oauth.NewGoogleProvider(cfg), cfg)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/auth/google?code=auth-code", "")

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Location"))
	require.NotNil(t, accessTokenCookie(resp))
}

func TestGoogleCallback_ExchangeFailure(t *testing.T) {
	fakeGoogle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer fakeGoogle.Close()

	cfg := &config.Config{
		GoogleTokenURL:    fakeGoogle.URL + "/token",
		GoogleUserInfoURL: fakeGoogle.URL + "/userinfo",
		FrontendOrigin:    "http://localhost:3000",
	}
	app, _ := newAuthApp(&fakeAuthService{}, oauth.NewGoogleProvider(cfg), cfg)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/auth/google?code=bad-code", "")

	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	require.Equal(t, "Google authentication failed", body["error"])
}

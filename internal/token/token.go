package token

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blog-api/internal/model"
)

// CookieName is the cookie carrying the signed access token.
const CookieName = "access_token"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the identity decoded from a verified token.
type Claims struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// Manager signs and verifies access tokens. The secret and TTL come from
// the process config, never from per-call env reads.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(m.ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
	}, nil
}

// AttachCookie sets the access token as an HTTP-only cookie on the response.
func (m *Manager) AttachCookie(c *fiber.Ctx, tokenString string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearCookie expires the access token cookie. Tokens are stateless, so a
// captured token stays valid until expiry; logout is best-effort client-side.
func (m *Manager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

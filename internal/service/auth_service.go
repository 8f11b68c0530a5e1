package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"blog-api/internal/model"
	"blog-api/internal/oauth"
	"blog-api/internal/repository"
)

var (
	ErrDuplicateUser   = errors.New("username or email already exists")
	ErrUserNotFound    = errors.New("invalid email or username")
	ErrInvalidPassword = errors.New("invalid password")
)

const pgUniqueViolation = "23505"

type AuthService interface {
	Register(ctx context.Context, username, email, password, name string) (*model.User, error)
	Login(ctx context.Context, credential, password string) (*model.User, error)
	OAuthLogin(ctx context.Context, info *oauth.UserInfo) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register creates a local account. Uniqueness of username and email lives
// in the database; a unique-violation on insert is the single source of
// truth for ErrDuplicateUser, there is no check-then-create read.
func (s *authService) Register(ctx context.Context, username, email, password, name string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	hash := string(hashedPassword)
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
	}
	if name != "" {
		user.Name = &name
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	user.ID = newID

	return user, nil
}

// Login accepts a username or an email as the credential, picking the
// lookup by the presence of '@'.
func (s *authService) Login(ctx context.Context, credential, password string) (*model.User, error) {
	var user *model.User
	var err error

	if strings.Contains(credential, "@") {
		user, err = s.userRepo.FindByEmail(ctx, credential)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, credential)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// OAuth-only accounts have no local password to compare against.
	if user.PasswordHash == nil {
		return nil, ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// OAuthLogin resolves the provider identity to a local user keyed by email.
// A first-time email gets a new account with no local password; an existing
// user is reused as-is, no field sync.
func (s *authService) OAuthLogin(ctx context.Context, info *oauth.UserInfo) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	newUser := &model.User{
		Username: info.Name,
		Email:    info.Email,
		Role:     model.RoleUser,
		GoogleID: &info.Sub,
	}
	if info.Picture != "" {
		newUser.Picture = &info.Picture
	}

	newID, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	newUser.ID = newID

	return newUser, nil
}

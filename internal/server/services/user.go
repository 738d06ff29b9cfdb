// Package services contains the application services sitting between the
// HTTP surface and the repositories/storage backends.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// Field caps enforced at registration, matching the schema.
const (
	maxUsernameLen = 50
	maxEmailLen    = 100
)

// LoginResult is what a successful login returns to the caller.
type LoginResult struct {
	Token    string
	Username string
	Email    string
}

// UserService implements registration and credential verification.
type UserService struct {
	repo   users.Repository
	tokens *auth.TokenService
}

func NewUserService(repo users.Repository, tokens *auth.TokenService) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

// Register creates a new account and returns its id. Blank fields fail with
// common.ErrorValidation; a taken username or email fails with
// common.ErrorConflict. The existence check is a single combined query; a
// concurrent duplicate that slips past it is caught by the unique indexes
// and reported the same way.
func (s *UserService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, common.ErrorValidation
	}
	if utf8.RuneCountInString(username) > maxUsernameLen || utf8.RuneCountInString(email) > maxEmailLen {
		return 0, common.ErrorValidation
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return 0, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		return 0, common.ErrorConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return 0, common.ErrorConflict
		}
		return 0, fmt.Errorf("creating user: %w", err)
	}

	return user.ID, nil
}

// Login verifies the credentials and issues a session token. An unknown
// username and a wrong password both return common.ErrorUnauthorized, so the
// error channel does not reveal which accounts exist.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &LoginResult{Token: token, Username: user.Username, Email: user.Email}, nil
}

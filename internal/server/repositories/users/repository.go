// Package users contains the user account repository.
package users

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// ExistsByUsernameOrEmail reports whether either identity field is
	// already taken, as a single combined query.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

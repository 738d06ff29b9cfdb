// Package files contains the file catalog repository: the metadata rows
// tying users to their uploaded files.
package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository is the owner-scoped file catalog. Every query filters by the
// owning user id so an entry belonging to another owner is indistinguishable
// from a non-existent one.
type Repository interface {
	Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error)
	// ListByOwner returns the owner's entries, most recent first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.StoredFile, error)
	GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*models.StoredFile, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

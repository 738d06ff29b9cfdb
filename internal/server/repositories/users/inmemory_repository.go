package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and
// database-less development runs.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[int64]*models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.users[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}

	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}

	return false, nil
}

package files

import (
	"context"
	"sort"
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
	files  map[int64]*models.StoredFile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{files: make(map[int64]*models.StoredFile)}
}

func (r *InMemoryRepository) Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *file
	stored.ID = r.nextID
	stored.UploadedAt = time.Now().UTC()
	r.files[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.StoredFile
	for _, f := range r.files {
		if f.UserID == ownerID {
			item := *f
			result = append(result, &item)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *InMemoryRepository) GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*models.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok || f.UserID != ownerID {
		return nil, common.ErrorNotFound
	}

	result := *f
	return &result, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, ownerID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok || f.UserID != ownerID {
		return common.ErrorNotFound
	}

	delete(r.files, id)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// FileService drives the file lifecycle: validated ingestion into the blob
// store plus the catalog row, owner-scoped listing, and deletion of both.
type FileService struct {
	repo   files.Repository
	blobs  storage.BlobStore
	logger logging.Logger
}

func NewFileService(repo files.Repository, blobs storage.BlobStore, logger logging.Logger) *FileService {
	return &FileService{repo: repo, blobs: blobs, logger: logger.With("module", "file_service")}
}

// Upload validates the declared metadata, writes the bytes into the owner's
// namespace and records the catalog row. All validation happens before the
// first byte is written. If the catalog insert fails after a successful
// write, the blob is removed again so no unrecorded bytes linger.
func (s *FileService) Upload(ctx context.Context, ownerID int64, originalName, contentType string, size int64, r io.Reader) (*models.StoredFile, error) {
	if size <= 0 || strings.TrimSpace(originalName) == "" {
		return nil, common.ErrorValidation
	}
	if !storage.IsValidType(contentType) {
		return nil, common.ErrorValidation
	}
	if size > storage.MaxFileSize {
		return nil, common.ErrorValidation
	}

	name := storage.GenerateName(originalName)

	location, err := s.blobs.Save(ctx, ownerID, name, r)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	file, err := s.repo.Create(ctx, &models.StoredFile{
		StorageName:  name,
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         size,
		Location:     location,
		UserID:       ownerID,
	})
	if err != nil {
		if _, delErr := s.blobs.Delete(ctx, location); delErr != nil {
			s.logger.Warn(ctx, "could not remove blob after failed catalog insert", "location", location, "error", delErr)
		}
		return nil, fmt.Errorf("recording file: %w", err)
	}

	return file, nil
}

// List returns the owner's files, most recent first.
func (s *FileService) List(ctx context.Context, ownerID int64) ([]*models.StoredFile, error) {
	result, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return result, nil
}

// Delete removes a file the owner can see: physical bytes first, catalog row
// second. A missing physical object is treated as already cleaned up, not an
// error. There is deliberately no compensating transaction if the row delete
// fails after the bytes are gone.
func (s *FileService) Delete(ctx context.Context, ownerID, id int64) error {
	file, err := s.repo.GetByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("file lookup: %w", err)
	}

	removed, err := s.blobs.Delete(ctx, file.Location)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	if !removed {
		s.logger.Warn(ctx, "physical object already missing", "location", file.Location)
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// a concurrent delete won the race on the row
			return common.ErrorNotFound
		}
		return fmt.Errorf("removing catalog row: %w", err)
	}

	return nil
}

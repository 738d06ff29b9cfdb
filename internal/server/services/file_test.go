package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// fakeBlobStore records calls and simulates missing objects.
type fakeBlobStore struct {
	saved   map[string]string // location -> content
	saveErr error
	missing map[string]bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: make(map[string]string), missing: make(map[string]bool)}
}

func (f *fakeBlobStore) Save(ctx context.Context, ownerID int64, name string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	location := fmt.Sprintf("blobs/%d/%s", ownerID, name)
	body, _ := io.ReadAll(r)
	f.saved[location] = string(body)
	return location, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, location string) (bool, error) {
	if f.missing[location] {
		return false, nil
	}
	if _, ok := f.saved[location]; !ok {
		return false, nil
	}
	delete(f.saved, location)
	return true, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestFileService(blobs storage.BlobStore) (*FileService, files.Repository) {
	repo := files.NewInMemoryRepository()
	return NewFileService(repo, blobs, testLogger()), repo
}

func TestUpload_Success(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	file, err := s.Upload(context.Background(), 1, "report.pdf", "application/pdf", 7, strings.NewReader("content"))
	require.NoError(t, err)

	assert.Greater(t, file.ID, int64(0))
	assert.Equal(t, "report.pdf", file.OriginalName)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, int64(7), file.Size)
	assert.Regexp(t, `^report_\d+_[0-9a-f]{8}\.pdf$`, file.StorageName)
	assert.Equal(t, "content", blobs.saved[file.Location])
}

func TestUpload_RejectsBeforePhysicalWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		originalName string
		contentType  string
		size         int64
	}{
		{"empty file", "a.pdf", "application/pdf", 0},
		{"blank name", "  ", "application/pdf", 10},
		{"bad type", "a.txt", "text/plain", 10},
		{"blank type", "a.pdf", "", 10},
		{"over cap", "a.pdf", "application/pdf", storage.MaxFileSize + 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blobs := newFakeBlobStore()
			s, _ := newTestFileService(blobs)

			_, err := s.Upload(context.Background(), 1, tc.originalName, tc.contentType, tc.size, strings.NewReader("x"))
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Empty(t, blobs.saved, "no bytes may be written for rejected input")
		})
	}
}

func TestUpload_CapBoundary(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	// exactly at the cap is accepted
	_, err := s.Upload(context.Background(), 1, "big.pdf", "application/pdf", storage.MaxFileSize, strings.NewReader("x"))
	require.NoError(t, err)
}

type failingFilesRepo struct {
	files.Repository
	createErr error
}

func (f *failingFilesRepo) Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, file)
}

func TestUpload_BlobRemovedAfterFailedCatalogInsert(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	repo := &failingFilesRepo{Repository: files.NewInMemoryRepository(), createErr: errors.New("insert failed")}
	s := NewFileService(repo, blobs, testLogger())

	_, err := s.Upload(context.Background(), 1, "a.pdf", "application/pdf", 1, strings.NewReader("x"))
	require.Error(t, err)
	assert.Empty(t, blobs.saved, "blob must not outlive a failed catalog insert")
}

func TestList_OwnerScoped(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	// both owners upload files with the same original name
	_, err := s.Upload(context.Background(), 1, "same.pdf", "application/pdf", 1, strings.NewReader("a"))
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), 2, "same.pdf", "application/pdf", 1, strings.NewReader("b"))
	require.NoError(t, err)

	listA, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, int64(1), listA[0].UserID)

	listC, err := s.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, listC)
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	first, err := s.Upload(context.Background(), 1, "first.pdf", "application/pdf", 1, strings.NewReader("1"))
	require.NoError(t, err)
	second, err := s.Upload(context.Background(), 1, "second.pdf", "application/pdf", 1, strings.NewReader("2"))
	require.NoError(t, err)

	list, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestDelete_Success(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	file, err := s.Upload(context.Background(), 1, "a.pdf", "application/pdf", 1, strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), 1, file.ID))
	assert.Empty(t, blobs.saved)

	list, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	// repeat delete of the same id
	assert.ErrorIs(t, s.Delete(context.Background(), 1, file.ID), common.ErrorNotFound)
}

// A different owner's id must look exactly like a non-existent id.
func TestDelete_CrossOwnerIsNotFound(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	file, err := s.Upload(context.Background(), 1, "a.pdf", "application/pdf", 1, strings.NewReader("x"))
	require.NoError(t, err)

	errCross := s.Delete(context.Background(), 2, file.ID)
	errMissing := s.Delete(context.Background(), 2, file.ID+1000)

	assert.ErrorIs(t, errCross, common.ErrorNotFound)
	assert.ErrorIs(t, errMissing, common.ErrorNotFound)
	assert.Equal(t, errCross.Error(), errMissing.Error())

	// the owner's file is untouched
	list, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// A catalog row pointing at already-missing bytes is cleaned up, not a failure.
func TestDelete_MissingPhysicalObjectStillRemovesRow(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	s, _ := newTestFileService(blobs)

	file, err := s.Upload(context.Background(), 1, "a.pdf", "application/pdf", 1, strings.NewReader("x"))
	require.NoError(t, err)

	// simulate the bytes vanishing outside the catalog's control
	blobs.missing[file.Location] = true

	require.NoError(t, s.Delete(context.Background(), 1, file.ID))

	list, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

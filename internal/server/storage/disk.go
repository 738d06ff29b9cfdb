package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// DiskStore keeps each owner's files in a separate subdirectory (the decimal
// user id) under a common uploads root.
type DiskStore struct {
	root string
}

// NewDiskStore creates the uploads root if it does not exist yet.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(ctx context.Context, ownerID int64, name string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, strconv.FormatInt(ownerID, 10))

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}

func (s *DiskStore) Delete(ctx context.Context, location string) (bool, error) {
	err := os.Remove(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove %s: %w", location, err)
	}

	return true, nil
}

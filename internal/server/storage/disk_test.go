package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_SaveCreatesOwnerNamespace(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewDiskStore(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	location, err := s.Save(context.Background(), 7, "a.pdf", strings.NewReader("content"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "uploads", "7", "a.pdf"), location)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestDiskStore_OwnersAreIsolated(t *testing.T) {
	t.Parallel()

	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	loc1, err := s.Save(context.Background(), 1, "same.png", strings.NewReader("one"))
	require.NoError(t, err)
	loc2, err := s.Save(context.Background(), 2, "same.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, loc1, loc2)

	data, err := os.ReadFile(loc1)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestDiskStore_SaveIdempotentDirCreation(t *testing.T) {
	t.Parallel()

	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), 3, "first.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = s.Save(context.Background(), 3, "second.pdf", strings.NewReader("y"))
	require.NoError(t, err)
}

func TestDiskStore_Delete(t *testing.T) {
	t.Parallel()

	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	location, err := s.Save(context.Background(), 1, "a.pdf", strings.NewReader("content"))
	require.NoError(t, err)

	removed, err := s.Delete(context.Background(), location)
	require.NoError(t, err)
	assert.True(t, removed)

	// a second delete of the same location is a normal outcome, not an error
	removed, err = s.Delete(context.Background(), location)
	require.NoError(t, err)
	assert.False(t, removed)
}

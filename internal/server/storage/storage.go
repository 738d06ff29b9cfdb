// Package storage implements the physical file store: validated content
// types, collision-resistant storage names, and per-user isolated blob
// backends (local disk or S3-compatible object storage).
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileSize is the fixed per-file size cap (5 MiB).
const MaxFileSize = 5 * 1024 * 1024

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/jpg":       {},
}

// BlobStore writes and removes physical file bytes inside per-owner
// namespaces. Save returns a backend-specific location usable with Delete.
// Delete reports whether an object was actually removed; a missing object
// is a normal outcome (false, nil), not an error.
type BlobStore interface {
	Save(ctx context.Context, ownerID int64, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, location string) (bool, error)
}

// IsValidType reports whether the declared content type is on the fixed
// allow-list. The check is case-insensitive; blank input is always invalid.
func IsValidType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return false
	}
	_, ok := allowedContentTypes[strings.ToLower(contentType)]
	return ok
}

// GenerateName builds a collision-resistant storage name from the original
// filename: sanitized base, Unix timestamp (seconds) and an 8-character
// random hex suffix, preserving the extension. Uniqueness of two same-second
// uploads rests on the random suffix, not the timestamp.
func GenerateName(originalFileName string) string {
	ext := filepath.Ext(originalFileName)
	base := strings.TrimSuffix(filepath.Base(originalFileName), ext)

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	return fmt.Sprintf("%s_%d_%s%s", sanitizeBaseName(base), time.Now().Unix(), suffix, ext)
}

// sanitizeBaseName strips everything outside [A-Za-z0-9._-] from the
// client-supplied base name, so it can never influence the storage path.
func sanitizeBaseName(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

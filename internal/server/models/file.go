package models

import "time"

// StoredFile describes one uploaded artifact owned by a single user.
type StoredFile struct {
	ID int64
	// StorageName is the generated, collision-resistant name the bytes are
	// stored under inside the owner's namespace.
	StorageName string
	// OriginalName is the client-supplied filename. Untrusted, display only.
	OriginalName string
	ContentType  string
	Size         int64
	// Location is the backend-specific path or object key of the bytes.
	Location   string
	UploadedAt time.Time
	// UserID is the owning user.
	UserID int64
}

package models

import (
	"time"
)

// Visibility is the per-file access tier. Only "public" is readable by
// everyone; "private" and "restricted" are owner-only (plus admin).
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityPrivate    Visibility = "private"
	VisibilityRestricted Visibility = "restricted"
)

// Valid reports whether v is one of the known visibility tiers.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityRestricted:
		return true
	}
	return false
}

// File is an owned, uploaded artifact. The row references the stored
// object twice: FileURL is the public download URL served to clients,
// StoragePath is the bucket-relative path used for deletion.
type File struct {
	ID            string     `json:"_id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	FileType      string     `json:"fileType" db:"file_type"` // MIME type
	Tags          []string   `json:"tags" db:"tags"`
	FileURL       string     `json:"fileUrl" db:"file_url"`
	StoragePath   string     `json:"-" db:"storage_path"`
	FileSize      int64      `json:"fileSize" db:"file_size"`
	DownloadCount int64      `json:"downloadCount" db:"download_count"`
	Visibility    Visibility `json:"visibility" db:"visibility"`
	OwnerID       string     `json:"-" db:"owner_id"`
	Owner         UserRef    `json:"owner"`
	CourseID      *string    `json:"courseId" db:"course_id"` // weak reference, nullable
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// Package storage wraps the object-storage collaborator behind a narrow
// interface so services can be tested without a bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// UploadResult describes a stored object: the bucket-relative path kept
// on the file row for later deletion, and the public download URL.
type UploadResult struct {
	Path      string
	PublicURL string
}

// ObjectStore is the narrow contract the file and course services have
// with object storage. Upload and Remove are network calls; Remove is
// used best-effort only.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, data io.Reader) (*UploadResult, error)
	Remove(ctx context.Context, objectPath string) error
}

// ObjectPath builds a collision-free bucket path for an uploaded file,
// keeping the original base name readable: uploads/<name>-<uuid><ext>.
func ObjectPath(originalName string) string {
	ext := path.Ext(originalName)
	base := originalName[:len(originalName)-len(ext)]
	return fmt.Sprintf("uploads/%s-%s%s", base, uuid.NewString(), ext)
}

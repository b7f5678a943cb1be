package repositories

import (
	"context"

	"docshare/internal/domain/models"
	"docshare/internal/query"
)

// FileRepository defines data access operations for file metadata rows.
// Rows are fetched unscoped; visibility masking and ownership checks are
// the service layer's job (via the access policy).
type FileRepository interface {
	// Create inserts a new file row and fills in generated ID and timestamps
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file by id, regardless of visibility
	GetByID(ctx context.Context, id string) (*models.File, error)

	// List executes a query plan, returning the page of rows plus the
	// total count of rows matching the plan's predicates (unpaged)
	List(ctx context.Context, plan query.Plan) ([]models.File, int, error)

	// Update persists the mutable fields of a file row
	Update(ctx context.Context, file *models.File) error

	// Delete removes a file row and returns the deleted row
	Delete(ctx context.Context, id string) (*models.File, error)

	// IncrementDownloadCount atomically bumps the counter by one and
	// returns the new value
	IncrementDownloadCount(ctx context.Context, id string) (int64, error)

	// ListByCourse retrieves all files whose course_id matches
	ListByCourse(ctx context.Context, courseID string) ([]models.File, error)

	// DeleteByCourse removes all files whose course_id matches and
	// returns the deleted rows (callers clean up their storage objects)
	DeleteByCourse(ctx context.Context, courseID string) ([]models.File, error)
}

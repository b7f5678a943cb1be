package repositories

import (
	"context"

	"docshare/internal/domain/models"
	"docshare/internal/query"
)

// CourseRepository defines data access operations for course rows.
// As with files, rows come back unscoped; the service layer applies the
// access policy.
type CourseRepository interface {
	// Create inserts a new course row and fills in generated ID and timestamps
	Create(ctx context.Context, course *models.Course) error

	// GetByID retrieves a course by id, regardless of publish state
	GetByID(ctx context.Context, id string) (*models.Course, error)

	// List executes a query plan, returning the page of rows plus the
	// total count of rows matching the plan's predicates (unpaged)
	List(ctx context.Context, plan query.Plan) ([]models.Course, int, error)

	// Update persists the mutable fields of a course row
	Update(ctx context.Context, course *models.Course) error

	// Delete removes a course row
	Delete(ctx context.Context, id string) error
}

package repositories

import (
	"context"

	"docshare/internal/domain/models"
)

// UserRepository defines data access operations for app-side user records
type UserRepository interface {
	// Create inserts a new user and fills in generated ID and timestamps.
	// Returns a conflict error wrapping domain.ErrConflict when the uid
	// or email already exists.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by app-side row id
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUID retrieves a user by external credential id
	GetByUID(ctx context.Context, uid string) (*models.User, error)

	// UpdateProfile updates display name and photo URL. Nil fields are
	// left unchanged.
	UpdateProfile(ctx context.Context, id string, displayName, photoURL *string) (*models.User, error)
}

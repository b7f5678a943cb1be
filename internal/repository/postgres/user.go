package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const userColumns = "id, uid, email, display_name, photo_url, role, is_verified, created_at, updated_at"

// Create inserts a new user row
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (uid, email, display_name, photo_url, role, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.UID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.Role,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			// uid or email unique constraint; the resolver re-fetches by
			// uid on this path to stay idempotent
			return fmt.Errorf("user %s: %w", user.UID, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by app-side row id
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	return r.scanUser(executor.QueryRow(ctx, query, id), id)
}

// GetByUID retrieves a user by external credential id
func (r *PostgresUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE uid = $1`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	return r.scanUser(executor.QueryRow(ctx, query, uid), uid)
}

// UpdateProfile updates display name and photo URL; nil fields keep
// their stored value
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id string, displayName, photoURL *string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET display_name = COALESCE($1, display_name),
		    photo_url = COALESCE($2, photo_url),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING %s
	`, r.tables.Users, userColumns)

	executor := GetExecutor(ctx, r.pool)
	return r.scanUser(executor.QueryRow(ctx, query, displayName, photoURL, id), id)
}

func (r *PostgresUserRepository) scanUser(row interface{ Scan(...interface{}) error }, ref string) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", ref, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

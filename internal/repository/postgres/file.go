package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
	"docshare/internal/query"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = `id, name, description, file_type, tags, file_url, storage_path,
	file_size, download_count, visibility, owner_id, course_id, created_at, updated_at`

// Create inserts a new file row
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	q := fmt.Sprintf(`
		INSERT INTO %s (name, description, file_type, tags, file_url, storage_path,
			file_size, visibility, owner_id, course_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, download_count, created_at, updated_at
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, q,
		file.Name,
		file.Description,
		file.FileType,
		file.Tags,
		file.FileURL,
		file.StoragePath,
		file.FileSize,
		file.Visibility,
		file.OwnerID,
		file.CourseID,
	).Scan(&file.ID, &file.DownloadCount, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("file owner %s: %w", file.OwnerID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by id, regardless of visibility
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, q, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// List executes a query plan: one paged select for the items, one
// count over the same predicates for the pagination envelope
func (r *PostgresFileRepository) List(ctx context.Context, plan query.Plan) ([]models.File, int, error) {
	executor := GetExecutor(ctx, r.pool)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Files, plan.WhereClause())
	var total int
	if err := executor.QueryRow(ctx, countQuery, plan.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s %s`,
		fileColumns, r.tables.Files, plan.WhereClause(), plan.PageClause())

	rows, err := executor.Query(ctx, listQuery, plan.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files, err := collectFiles(rows)
	if err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

// Update persists the mutable fields of a file row. Ownership and the
// storage reference never change after creation.
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, tags = $3, visibility = $4,
		    course_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, q,
		file.Name,
		file.Description,
		file.Tags,
		file.Visibility,
		file.CourseID,
		file.ID,
	).Scan(&file.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update file: %w", err)
	}

	return nil
}

// Delete removes a file row and returns the deleted row so the caller
// can clean up the storage object
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) (*models.File, error) {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, r.tables.Files, fileColumns)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, q, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete file: %w", err)
	}

	return file, nil
}

// IncrementDownloadCount atomically bumps the counter at the store,
// avoiding the lost-update race a read-modify-write would have
func (r *PostgresFileRepository) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	q := fmt.Sprintf(`
		UPDATE %s
		SET download_count = download_count + 1
		WHERE id = $1
		RETURNING download_count
	`, r.tables.Files)

	var count int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, q, id).Scan(&count); err != nil {
		if IsPgNoRowsError(err) {
			return 0, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("increment download count: %w", err)
	}

	return count, nil
}

// ListByCourse retrieves all files whose course_id matches
func (r *PostgresFileRepository) ListByCourse(ctx context.Context, courseID string) ([]models.File, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE course_id = $1 ORDER BY created_at DESC`,
		fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, q, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

// DeleteByCourse removes all files of a course and returns the deleted
// rows (for storage-object cleanup after the transaction commits)
func (r *PostgresFileRepository) DeleteByCourse(ctx context.Context, courseID string) ([]models.File, error) {
	q := fmt.Sprintf(`DELETE FROM %s WHERE course_id = $1 RETURNING %s`, r.tables.Files, fileColumns)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, q, courseID)
	if err != nil {
		return nil, fmt.Errorf("delete course files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.Name,
		&file.Description,
		&file.FileType,
		&file.Tags,
		&file.FileURL,
		&file.StoragePath,
		&file.FileSize,
		&file.DownloadCount,
		&file.Visibility,
		&file.OwnerID,
		&file.CourseID,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if file.Tags == nil {
		file.Tags = []string{}
	}
	return &file, nil
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	var files []models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	// Return empty slice instead of nil if no files
	if files == nil {
		files = []models.File{}
	}

	return files, nil
}

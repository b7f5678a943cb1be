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

// PostgresCourseRepository implements the CourseRepository interface.
// Sections and enrollments live in JSONB columns on the course row.
type PostgresCourseRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(config *RepositoryConfig) repositories.CourseRepository {
	return &PostgresCourseRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const courseColumns = `id, title, description, category, instructor_id, cover_image,
	sections, enrollments, tags, is_published, created_at, updated_at`

// Create inserts a new course row
func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	q := fmt.Sprintf(`
		INSERT INTO %s (title, description, category, instructor_id, cover_image,
			sections, enrollments, tags, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, q,
		course.Title,
		course.Description,
		course.Category,
		course.InstructorID,
		course.CoverImage,
		course.Sections,
		course.Enrollments,
		course.Tags,
		course.IsPublished,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("course instructor %s: %w", course.InstructorID, domain.ErrNotFound)
		}
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by id, regardless of publish state
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, courseColumns, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	course, err := scanCourse(executor.QueryRow(ctx, q, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	return course, nil
}

// List executes a query plan: one paged select for the items, one
// count over the same predicates for the pagination envelope
func (r *PostgresCourseRepository) List(ctx context.Context, plan query.Plan) ([]models.Course, int, error) {
	executor := GetExecutor(ctx, r.pool)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Courses, plan.WhereClause())
	var total int
	if err := executor.QueryRow(ctx, countQuery, plan.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s %s`,
		courseColumns, r.tables.Courses, plan.WhereClause(), plan.PageClause())

	rows, err := executor.Query(ctx, listQuery, plan.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate courses: %w", err)
	}

	// Return empty slice instead of nil if no courses
	if courses == nil {
		courses = []models.Course{}
	}

	return courses, total, nil
}

// Update persists the mutable fields of a course row. The instructor
// never changes after creation.
func (r *PostgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, category = $3, cover_image = $4,
		    sections = $5, enrollments = $6, tags = $7, is_published = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, q,
		course.Title,
		course.Description,
		course.Category,
		course.CoverImage,
		course.Sections,
		course.Enrollments,
		course.Tags,
		course.IsPublished,
		course.ID,
	).Scan(&course.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

// Delete removes a course row
func (r *PostgresCourseRepository) Delete(ctx context.Context, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.InstructorID,
		&course.CoverImage,
		&course.Sections,
		&course.Enrollments,
		&course.Tags,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if course.Sections == nil {
		course.Sections = []models.Section{}
	}
	if course.Enrollments == nil {
		course.Enrollments = []models.Enrollment{}
	}
	if course.Tags == nil {
		course.Tags = []string{}
	}

	return &course, nil
}

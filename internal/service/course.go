package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docshare/internal/config"
	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
	"docshare/internal/policy"
	"docshare/internal/query"
	"docshare/internal/storage"
)

// CreateCourseRequest carries the fields of a new course.
type CreateCourseRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Sections    []models.Section `json:"sections"`
	Tags        []string         `json:"tags"`
	CoverImage  string           `json:"coverImage"`
	IsPublished bool             `json:"isPublished"`
}

// UpdateCourseRequest carries the patchable course fields. Nil fields
// are left unchanged.
type UpdateCourseRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	Sections    *[]models.Section `json:"sections"`
	Tags        []string          `json:"tags"`
	IsPublished *bool             `json:"isPublished"`
	CoverImage  *string           `json:"coverImage"`
}

// CourseService orchestrates the access policy, query builder, the
// course and file repositories (for the delete cascade), and object
// storage (for cascaded object cleanup).
type CourseService struct {
	courseRepo repositories.CourseRepository
	fileRepo   repositories.FileRepository
	userRepo   repositories.UserRepository
	store      storage.ObjectStore
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo repositories.CourseRepository,
	fileRepo repositories.FileRepository,
	userRepo repositories.UserRepository,
	store storage.ObjectStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		fileRepo:   fileRepo,
		userRepo:   userRepo,
		store:      store,
		txManager:  txManager,
		logger:     logger,
	}
}

// Create validates and persists a new course owned by the caller
func (s *CourseService) Create(ctx context.Context, req *CreateCourseRequest, instructor models.Identity) (*models.Course, error) {
	if instructor.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	course := &models.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     req.Category,
		InstructorID: instructor.UserID,
		CoverImage:   req.CoverImage,
		Sections:     req.Sections,
		Enrollments:  []models.Enrollment{},
		Tags:         normalizeTags(req.Tags),
		IsPublished:  req.IsPublished,
	}
	if course.Sections == nil {
		course.Sections = []models.Section{}
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		"id", course.ID,
		"title", course.Title,
		"instructor_id", instructor.UserID,
	)

	course.Instructor = models.Ref(s.lookupInstructor(ctx, course.InstructorID), course.InstructorID)
	return course, nil
}

// List runs a filtered, paginated query scoped to courses the caller
// may see: published ones plus their own.
func (s *CourseService) List(ctx context.Context, opts models.ListOptions, caller models.Identity) (*models.CoursePage, error) {
	opts.ApplyDefaults()

	plan := query.Build(query.CourseSpec, opts, policy.ScopeFor(caller))
	courses, total, err := s.courseRepo.List(ctx, plan)
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*models.User)
	for i := range courses {
		id := courses[i].InstructorID
		user, ok := cache[id]
		if !ok {
			user = s.lookupInstructor(ctx, id)
			cache[id] = user
		}
		courses[i].Instructor = models.Ref(user, id)
	}

	return &models.CoursePage{
		Courses:    courses,
		Pagination: models.NewPagination(total, plan.Page, plan.Limit),
	}, nil
}

// Get fetches one course with its dependent files attached. Denied
// reads resolve to ErrNotFound, masking the course's existence.
func (s *CourseService) Get(ctx context.Context, id string, caller models.Identity) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanRead(caller, policy.ForCourse(course)) {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}

	files, err := s.fileRepo.ListByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Files = files

	course.Instructor = models.Ref(s.lookupInstructor(ctx, course.InstructorID), course.InstructorID)
	return course, nil
}

// Update merges present patch fields into the stored course.
// Instructor-only: admin does not bypass update.
func (s *CourseService) Update(ctx context.Context, id string, patch *UpdateCourseRequest, caller models.Identity) (*models.Course, error) {
	if err := s.validateUpdateRequest(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanWrite(caller, policy.ForCourse(course)) {
		return nil, fmt.Errorf("update course %s: %w", id, domain.ErrForbidden)
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		course.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Category != nil && *patch.Category != "" {
		course.Category = *patch.Category
	}
	if patch.Sections != nil {
		course.Sections = *patch.Sections
	}
	if patch.Tags != nil {
		course.Tags = normalizeTags(patch.Tags)
	}
	if patch.IsPublished != nil {
		course.IsPublished = *patch.IsPublished
	}
	if patch.CoverImage != nil && *patch.CoverImage != "" {
		course.CoverImage = *patch.CoverImage
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course updated", "id", course.ID, "user_id", caller.UserID)

	course.Instructor = models.Ref(s.lookupInstructor(ctx, course.InstructorID), course.InstructorID)
	return course, nil
}

// Delete removes a course and every file that references it. The file
// rows and the course row go in one transaction, so a partial cascade
// can never be observed; storage objects of the cascaded files are
// removed best-effort after commit.
func (s *CourseService) Delete(ctx context.Context, id string, caller models.Identity) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanDelete(caller, policy.ForCourse(course)) {
		return fmt.Errorf("delete course %s: %w", id, domain.ErrForbidden)
	}

	var cascaded []models.File
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		files, err := s.fileRepo.DeleteByCourse(txCtx, id)
		if err != nil {
			return err
		}
		cascaded = files

		return s.courseRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	for _, file := range cascaded {
		if file.StoragePath == "" {
			continue
		}
		if rmErr := s.store.Remove(ctx, file.StoragePath); rmErr != nil {
			s.logger.Error("cascaded object removal failed",
				"course_id", id,
				"path", file.StoragePath,
				"error", rmErr,
			)
		}
	}

	s.logger.Info("course deleted",
		"id", id,
		"cascaded_files", len(cascaded),
		"user_id", caller.UserID,
	)

	return nil
}

// Enroll adds the caller to a course. Enrolling twice is a no-op that
// returns the current state.
func (s *CourseService) Enroll(ctx context.Context, id string, caller models.Identity) (*models.Course, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanRead(caller, policy.ForCourse(course)) {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}

	if course.EnrollmentFor(caller.UserID) == nil {
		course.Enrollments = append(course.Enrollments, models.Enrollment{
			UserID:     caller.UserID,
			EnrolledAt: time.Now().UTC(),
			Progress:   0,
		})

		if err := s.courseRepo.Update(ctx, course); err != nil {
			return nil, err
		}

		s.logger.Info("user enrolled", "course_id", id, "user_id", caller.UserID)
	}

	course.Instructor = models.Ref(s.lookupInstructor(ctx, course.InstructorID), course.InstructorID)
	return course, nil
}

// UpdateProgress sets the caller's progress on a course they are
// enrolled in, bounded to [0, 100].
func (s *CourseService) UpdateProgress(ctx context.Context, id string, caller models.Identity, progress int) (*models.Course, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", domain.ErrValidation)
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanRead(caller, policy.ForCourse(course)) {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}

	enrollment := course.EnrollmentFor(caller.UserID)
	if enrollment == nil {
		return nil, fmt.Errorf("%w: not enrolled in course %s", domain.ErrValidation, id)
	}
	enrollment.Progress = progress

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	course.Instructor = models.Ref(s.lookupInstructor(ctx, course.InstructorID), course.InstructorID)
	return course, nil
}

func (s *CourseService) lookupInstructor(ctx context.Context, id string) *models.User {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	return user
}

func (s *CourseService) validateCreateRequest(req *CreateCourseRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxCourseTitleLength),
		),
		validation.Field(&req.Description,
			validation.Required,
			validation.Length(1, config.MaxDescriptionLength),
		),
		validation.Field(&req.Category, validation.Required),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagCount)),
	)
}

func (s *CourseService) validateUpdateRequest(req *UpdateCourseRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.When(req.Title != nil, validation.Length(1, config.MaxCourseTitleLength)),
		),
		validation.Field(&req.Description,
			validation.When(req.Description != nil, validation.Length(0, config.MaxDescriptionLength)),
		),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagCount)),
	)
}

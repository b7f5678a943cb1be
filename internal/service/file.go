package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docshare/internal/config"
	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
	"docshare/internal/policy"
	"docshare/internal/query"
	"docshare/internal/storage"
	"docshare/internal/uploads"
)

// UploadFileRequest carries an upload's metadata fields plus the file
// content itself.
type UploadFileRequest struct {
	Name        string
	Description string
	Tags        []string
	Visibility  models.Visibility
	CourseID    *string

	FileName    string // original client-side name
	ContentType string
	Size        int64
	Content     io.Reader
}

// UpdateFileRequest carries the patchable file fields. Nil fields are
// left unchanged; Description distinguishes "absent" from "set empty".
type UpdateFileRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Tags        []string           `json:"tags"`
	Visibility  *models.Visibility `json:"visibility"`
}

// FileService orchestrates the access policy, query builder, object
// storage and the file repository.
type FileService struct {
	fileRepo repositories.FileRepository
	userRepo repositories.UserRepository
	store    storage.ObjectStore
	uploads  *uploads.Policy
	logger   *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	userRepo repositories.UserRepository,
	store storage.ObjectStore,
	uploadPolicy *uploads.Policy,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		userRepo: userRepo,
		store:    store,
		uploads:  uploadPolicy,
		logger:   logger,
	}
}

// Upload stores the object then writes the metadata row. The two phases
// are not transactional: when the row write fails, the just-uploaded
// object is removed best-effort so it does not leak.
func (s *FileService) Upload(ctx context.Context, req *UploadFileRequest, owner models.Identity) (*models.File, error) {
	if owner.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.uploads.Check(req.FileName, req.Size); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.FileName
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	objectPath := storage.ObjectPath(req.FileName)
	uploaded, err := s.store.Upload(ctx, objectPath, req.ContentType, req.Content)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		Name:        name,
		Description: req.Description,
		FileType:    req.ContentType,
		Tags:        normalizeTags(req.Tags),
		FileURL:     uploaded.PublicURL,
		StoragePath: uploaded.Path,
		FileSize:    req.Size,
		Visibility:  visibility,
		OwnerID:     owner.UserID,
		CourseID:    req.CourseID,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Phase two failed: don't leave an orphaned object behind
		if rmErr := s.store.Remove(ctx, uploaded.Path); rmErr != nil {
			s.logger.Error("orphaned object cleanup failed",
				"path", uploaded.Path,
				"error", rmErr,
			)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"size", file.FileSize,
		"owner_id", owner.UserID,
	)

	file.Owner = models.Ref(s.lookupUser(ctx, file.OwnerID), file.OwnerID)
	return file, nil
}

// List runs a filtered, paginated query. The caller's visibility scope
// is injected into the plan, so private files of other users can never
// appear.
func (s *FileService) List(ctx context.Context, opts models.ListOptions, caller models.Identity) (*models.FilePage, error) {
	opts.ApplyDefaults()

	plan := query.Build(query.FileSpec, opts, policy.ScopeFor(caller))
	files, total, err := s.fileRepo.List(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.expandOwners(ctx, files)

	return &models.FilePage{
		Files:      files,
		Pagination: models.NewPagination(total, plan.Page, plan.Limit),
	}, nil
}

// Get fetches one file. Reads the caller is not allowed to make resolve
// to ErrNotFound, masking the file's existence. Each successful read
// counts as a download.
func (s *FileService) Get(ctx context.Context, id string, caller models.Identity) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanRead(caller, policy.ForFile(file)) {
		// Existence masking: denied reads are indistinguishable from
		// missing files
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	count, err := s.fileRepo.IncrementDownloadCount(ctx, id)
	if err != nil {
		return nil, err
	}
	file.DownloadCount = count

	file.Owner = models.Ref(s.lookupUser(ctx, file.OwnerID), file.OwnerID)
	return file, nil
}

// Update merges present patch fields into the stored file. Owner-only:
// admin does not bypass update.
func (s *FileService) Update(ctx context.Context, id string, patch *UpdateFileRequest, caller models.Identity) (*models.File, error) {
	if err := s.validateUpdateRequest(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanWrite(caller, policy.ForFile(file)) {
		return nil, fmt.Errorf("update file %s: %w", id, domain.ErrForbidden)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		file.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		file.Description = *patch.Description
	}
	if patch.Tags != nil {
		file.Tags = normalizeTags(patch.Tags)
	}
	if patch.Visibility != nil {
		file.Visibility = *patch.Visibility
	}

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file updated", "id", file.ID, "user_id", caller.UserID)

	file.Owner = models.Ref(s.lookupUser(ctx, file.OwnerID), file.OwnerID)
	return file, nil
}

// Delete removes the metadata row, then the storage object best-effort.
// A storage failure never blocks the delete; it is logged and reported
// nowhere else.
func (s *FileService) Delete(ctx context.Context, id string, caller models.Identity) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanDelete(caller, policy.ForFile(file)) {
		return fmt.Errorf("delete file %s: %w", id, domain.ErrForbidden)
	}

	deleted, err := s.fileRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.removeObject(ctx, deleted.StoragePath)

	s.logger.Info("file deleted", "id", id, "user_id", caller.UserID)

	return nil
}

// removeObject is the best-effort storage cleanup shared with the
// course cascade.
func (s *FileService) removeObject(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Remove(ctx, path); err != nil {
		s.logger.Error("storage object removal failed", "path", path, "error", err)
	}
}

// expandOwners fills in the owner reference on each file, tolerating
// lookup failures with a bare-id reference.
func (s *FileService) expandOwners(ctx context.Context, files []models.File) {
	cache := make(map[string]*models.User)
	for i := range files {
		ownerID := files[i].OwnerID
		user, ok := cache[ownerID]
		if !ok {
			user = s.lookupUser(ctx, ownerID)
			cache[ownerID] = user
		}
		files[i].Owner = models.Ref(user, ownerID)
	}
}

func (s *FileService) lookupUser(ctx context.Context, id string) *models.User {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("owner expansion failed", "user_id", id, "error", err)
		}
		return nil
	}
	return user
}

func (s *FileService) validateUploadRequest(req *UploadFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FileName, validation.Required),
		validation.Field(&req.ContentType, validation.Required),
		validation.Field(&req.Size, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Name, validation.Length(0, config.MaxFileNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagCount)),
		validation.Field(&req.Visibility, validation.By(validateVisibility)),
	)
}

func (s *FileService) validateUpdateRequest(req *UpdateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.When(req.Name != nil, validation.Length(1, config.MaxFileNameLength))),
		validation.Field(&req.Description, validation.When(req.Description != nil, validation.Length(0, config.MaxDescriptionLength))),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagCount)),
		validation.Field(&req.Visibility, validation.By(validateVisibilityPtr)),
	)
}

func validateVisibility(value interface{}) error {
	v, ok := value.(models.Visibility)
	if !ok {
		return fmt.Errorf("visibility must be a string")
	}
	if v != "" && !v.Valid() {
		return fmt.Errorf("visibility must be public, private or restricted")
	}
	return nil
}

func validateVisibilityPtr(value interface{}) error {
	v, ok := value.(*models.Visibility)
	if !ok || v == nil {
		return nil
	}
	if !v.Valid() {
		return fmt.Errorf("visibility must be public, private or restricted")
	}
	return nil
}

// normalizeTags trims whitespace and drops empty entries, preserving
// order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

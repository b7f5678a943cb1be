package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"docshare/internal/config"
	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
)

// UpdateProfileRequest carries the editable profile fields. Nil fields
// are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// UserService handles the caller's own profile.
type UserService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile retrieves a user by app-side id
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile updates display name and/or photo URL
func (s *UserService) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.UpdateProfile(ctx, id, req.DisplayName, req.PhotoURL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", id)

	return user, nil
}

func (s *UserService) validateUpdateRequest(req *UpdateProfileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DisplayName,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxDisplayNameLength),
		),
		validation.Field(&req.PhotoURL,
			validation.When(req.PhotoURL != nil && *req.PhotoURL != "", is.URL),
		),
	)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docshare/internal/auth"
	"docshare/internal/domain"
	"docshare/internal/domain/models"
	"docshare/internal/domain/repositories"
)

// IdentityResolver turns an inbound bearer credential into an app-side
// user record, creating the record on first sight of a novel external
// id (find-or-create). Resolution is idempotent: a concurrent first
// sign-in races to one row, the loser re-fetches it.
type IdentityResolver struct {
	verifier auth.TokenVerifier
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewIdentityResolver creates a new identity resolver
func NewIdentityResolver(
	verifier auth.TokenVerifier,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) *IdentityResolver {
	return &IdentityResolver{
		verifier: verifier,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Resolve verifies the token and returns the matching user record.
// Missing, malformed, or rejected tokens fail with ErrUnauthorized.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := r.verifier.VerifyToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := r.userRepo.GetByUID(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	// First sight of this external id: create the app-side record from
	// the identity provider's profile claims.
	user = &models.User{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: displayNameFromClaims(claims),
		PhotoURL:    claims.MetadataString("avatar_url"),
		Role:        models.RoleUser,
		IsVerified:  verifiedFromClaims(claims),
	}

	if err := r.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the creation race; the row exists now
			return r.userRepo.GetByUID(ctx, claims.Subject)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	r.logger.Info("user created",
		"id", user.ID,
		"uid", user.UID,
		"email", user.Email,
	)

	return user, nil
}

// displayNameFromClaims prefers the provider's full name, falling back
// to the email local part.
func displayNameFromClaims(claims *models.SupabaseClaims) string {
	if name := claims.MetadataString("full_name"); name != "" {
		return name
	}
	if at := strings.Index(claims.Email, "@"); at > 0 {
		return claims.Email[:at]
	}
	return claims.Email
}

func verifiedFromClaims(claims *models.SupabaseClaims) bool {
	if claims.UserMetadata == nil {
		return false
	}
	verified, _ := claims.UserMetadata["email_verified"].(bool)
	return verified
}

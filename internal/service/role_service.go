package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/repository"
)

// RoleResolver maps an authenticated identity to its platform role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) string
}

type roleResolver struct {
	profiles repository.ProfileRepository
	logger   zerolog.Logger
}

// NewRoleResolver constructs a profile-backed role resolver.
func NewRoleResolver(profiles repository.ProfileRepository, logger zerolog.Logger) RoleResolver {
	return &roleResolver{
		profiles: profiles,
		logger:   logger.With().Str("component", "role_resolver").Logger(),
	}
}

// Resolve fails closed: a missing profile row or a lookup error both yield
// the least-privileged role.
func (r *roleResolver) Resolve(ctx context.Context, userID uuid.UUID) string {
	if userID == uuid.Nil {
		return models.RoleUser
	}

	profile, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("role lookup failed, defaulting to user")
		}
		return models.RoleUser
	}

	if profile.Role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

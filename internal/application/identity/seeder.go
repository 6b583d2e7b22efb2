package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Seeder writes the bootstrap super admin account
type Seeder struct {
	userRepo identity.UserRepository
	cfg      config.SeedConfig
	logger   *zap.Logger
}

// NewSeeder creates a seeder for the configured account
func NewSeeder(userRepo identity.UserRepository, cfg config.SeedConfig, logger *zap.Logger) *Seeder {
	return &Seeder{userRepo: userRepo, cfg: cfg, logger: logger}
}

// EnsureSuperAdmin creates the super admin unless the username is taken.
// It does nothing when no password is configured.
func (s *Seeder) EnsureSuperAdmin(ctx context.Context) (*UserInfo, error) {
	if s.cfg.SuperAdminPassword == "" {
		s.logger.Warn("seed.super_admin_password is empty, skipping super admin seeding")
		return nil, nil
	}

	existing, err := s.userRepo.FindByUsername(ctx, s.cfg.SuperAdminUsername)
	if err == nil {
		s.logger.Debug("Super admin already present", zap.String("username", existing.Username))
		info := ToUserInfo(existing)
		return &info, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("look up super admin: %w", err)
	}

	user, err := identity.NewUser(uuid.Nil, s.cfg.SuperAdminUsername, s.cfg.SuperAdminPassword, s.cfg.SuperAdminName, identity.RoleSuperAdmin)
	if err != nil {
		return nil, fmt.Errorf("build super admin: %w", err)
	}
	user.ClearDomainEvents()
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("create super admin: %w", err)
	}

	s.logger.Info("Super admin seeded", zap.String("username", user.Username))
	info := ToUserInfo(user)
	return &info, nil
}

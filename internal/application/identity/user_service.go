package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService manages the staff roster
type UserService struct {
	userRepo    identity.UserRepository
	revocations auth.Revocations
	tokens      TokenIssuer
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	revocations auth.Revocations,
	tokens TokenIssuer,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		revocations: revocations,
		tokens:      tokens,
		publisher:   publisher,
		logger:      logger,
	}
}

// List returns the users matching the filter, ordered by username
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]UserInfo, error) {
	filter := identity.RosterFilter{Search: input.Keyword, Role: input.Role, ActiveOnly: input.ActiveOnly}
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ToUserInfos(users), nil
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// Create adds a user. Only a super admin may create another super admin.
func (s *UserService) Create(ctx context.Context, actor appshared.Actor, input CreateUserInput) (*UserInfo, error) {
	if !actor.Can(identity.CapManageUsers) {
		return nil, shared.ErrForbidden
	}
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateUserInput) (*UserInfo, error) {
		if in.Role == identity.RoleSuperAdmin && actor.Role != identity.RoleSuperAdmin {
			return nil, shared.NewDomainError("FORBIDDEN", "Only a super admin can grant SUPER_ADMIN")
		}
		exists, err := s.userRepo.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
		}

		user, err := identity.NewUser(actor.ID, in.Username, in.Password, in.Name, in.Role)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		if err := shared.PublishAndClear(ctx, s.publisher, user); err != nil {
			s.logger.Warn("Failed to publish user events", zap.Error(err))
		}

		s.logger.Info("User created",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
			zap.String("role", string(user.Role)))
		info := ToUserInfo(user)
		return &info, nil
	})
}

// Update changes the provided fields of a user. A role change, a password
// reset or a deactivation invalidates the tokens the user already holds.
func (s *UserService) Update(ctx context.Context, actor appshared.Actor, id uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	if !actor.Can(identity.CapManageUsers) {
		return nil, shared.ErrForbidden
	}
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateUserInput) (*UserInfo, error) {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user.Role == identity.RoleSuperAdmin && actor.Role != identity.RoleSuperAdmin {
			return nil, shared.NewDomainError("FORBIDDEN", "Only a super admin can modify a super admin")
		}

		revoke := false
		if in.Name != nil {
			if err := user.SetName(*in.Name); err != nil {
				return nil, err
			}
		}
		if in.Password != nil {
			if err := user.SetPassword(*in.Password); err != nil {
				return nil, err
			}
			revoke = true
		}
		if in.Role != nil && *in.Role != user.Role {
			if err := user.ChangeRole(actor.Role, *in.Role); err != nil {
				return nil, err
			}
			revoke = true
		}
		if in.IsActive != nil && *in.IsActive != user.IsActive {
			if !*in.IsActive && user.ID == actor.ID {
				return nil, shared.InvalidState("You cannot deactivate your own account")
			}
			user.SetActive(*in.IsActive)
			revoke = revoke || !*in.IsActive
		}

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		if revoke {
			s.invalidateTokens(ctx, user.ID)
		}
		if err := shared.PublishAndClear(ctx, s.publisher, user); err != nil {
			s.logger.Warn("Failed to publish user events", zap.Error(err))
		}

		s.logger.Info("User updated", zap.String("user_id", user.ID.String()))
		info := ToUserInfo(user)
		return &info, nil
	})
}

// Delete removes a user. Actors cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor appshared.Actor, id uuid.UUID) error {
	if !actor.Can(identity.CapManageUsers) {
		return shared.ErrForbidden
	}
	if id == actor.ID {
		return shared.InvalidState("You cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleSuperAdmin && actor.Role != identity.RoleSuperAdmin {
		return shared.NewDomainError("FORBIDDEN", "Only a super admin can delete a super admin")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateTokens(ctx, id)

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) invalidateTokens(ctx context.Context, userID uuid.UUID) {
	if s.revocations == nil || s.tokens == nil {
		return
	}
	if err := s.revocations.RevokeStaff(ctx, userID.String(), s.tokens.Expiration()); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(staffID uuid.UUID, role identity.Role, name string) (*auth.IssuedToken, error)
	Expiration() time.Duration
}

// AuthService opens and closes staff sessions.
type AuthService struct {
	users       identity.UserRepository
	tokens      TokenIssuer
	revocations auth.Revocations
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
	// decoy runs the password comparison for usernames without an account
	decoy       func(password string)
}

func NewAuthService(
	users identity.UserRepository,
	tokens TokenIssuer,
	revocations auth.Revocations,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		publisher:   publisher,
		logger:      logger.Named("auth"),
		now:         time.Now,
		decoy:       identity.RejectPassword,
	}
}

// Login checks the credentials and issues a token. Every credential failure
// is shared.ErrInvalidCredentials; the cause is only logged.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	return appshared.Run(ctx, input, s.login)
}

func (s *AuthService) login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := s.logger.With(zap.String("username", input.Username))

	user, rejected, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}
	if rejected != "" {
		log.Warn("Login rejected", zap.String("reason", rejected))
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role, user.DisplayName())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user.RecordLoginSuccess()
	if err := s.users.Update(ctx, user); err != nil {
		// the token stands; only the login timestamps are lost
		log.Error("Failed to record login", zap.Error(err))
	}
	if err := shared.PublishAndClear(ctx, s.publisher, user); err != nil {
		log.Warn("Failed to publish login events", zap.Error(err))
	}

	log.Info("Logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return &LoginResult{
		User:      ToUserInfo(user),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// authenticate returns the user, or a non-empty rejection reason when the
// credentials do not open a session.
func (s *AuthService) authenticate(ctx context.Context, input LoginInput) (*identity.User, string, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		s.decoy(input.Password)
		return nil, "unknown username", nil
	case err != nil:
		return nil, "", fmt.Errorf("find user: %w", err)
	case !user.VerifyPassword(input.Password):
		return nil, "wrong password", nil
	case !user.CanLogin():
		return nil, "account disabled", nil
	}
	return user, "", nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return shared.InvalidInput("Token has no id")
	}
	if ttl := input.ExpiresAt.Sub(s.now()); ttl > 0 {
		if err := s.revocations.RevokeToken(ctx, input.TokenJTI, ttl); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err == nil {
		user.AddDomainEvent(identity.NewUserLoggedOutEvent(user))
		if err := shared.PublishAndClear(ctx, s.publisher, user); err != nil {
			s.logger.Warn("Failed to publish logout events", zap.Error(err))
		}
	}

	s.logger.Info("Logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetCurrentUser returns the signed-in user with the capabilities of its role.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*CurrentUserResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.ErrUnauthorized
	}
	return &CurrentUserResult{
		User:         ToUserInfo(user),
		Capabilities: user.Capabilities(),
	}, nil
}

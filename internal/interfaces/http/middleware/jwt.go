package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"github.com/teashop/backend/internal/infrastructure/cache"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"github.com/teashop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	UserIDKey     = "user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// DefaultTouchInterval is how often last_active_at is written per user
const DefaultTouchInterval = time.Minute

// ActivityToucher stamps a user's last activity
type ActivityToucher interface {
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations, when set, rejects logged out tokens
	Revocations auth.Revocations
	// Users, when set, has last_active_at touched on authenticated requests
	Users ActivityToucher
	// Throttle limits the touches to one per TouchInterval per user
	Throttle      cache.Throttle
	TouchInterval time.Duration
	Translator    *i18n.Translator
	Logger        *zap.Logger
}

// JWTAuth rejects requests without a valid, unrevoked bearer token and
// stores the claims and the actor in the context
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.TouchInterval <= 0 {
		cfg.TouchInterval = DefaultTouchInterval
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, cfg, nil, i18n.MsgUnauthorized)
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, i18n.MsgTokenInvalid)
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, i18n.MsgTokenInvalid)
			return
		}
		if revoked(c.Request.Context(), cfg, claims) {
			abortUnauthorized(c, cfg, auth.ErrTokenRevoked, i18n.MsgTokenInvalid)
			return
		}

		userID := claims.Staff()
		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, appshared.Actor{ID: userID, Role: claims.Role()})
		c.Set(UserIDKey, claims.StaffID)

		ctx := logger.WithStaff(c.Request.Context(), claims.StaffID, claims.RoleName)
		c.Request = c.Request.WithContext(ctx)

		touch(ctx, cfg, userID)
		c.Next()
	}
}

// revoked fails open when the revocation store is unreachable
func revoked(ctx context.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	if cfg.Revocations == nil {
		return false
	}
	revoked, err := auth.IsRevoked(ctx, cfg.Revocations, claims)
	if err != nil {
		cfg.Logger.Error("Failed to check token revocation",
			zap.String("jti", claims.ID),
			zap.String("user_id", claims.StaffID),
			zap.Error(err),
		)
		return false
	}
	return revoked
}

func touch(ctx context.Context, cfg JWTMiddlewareConfig, userID uuid.UUID) {
	if cfg.Users == nil {
		return
	}
	if cfg.Throttle != nil {
		allowed, err := cfg.Throttle.Allow(ctx, "last_active:"+userID.String(), cfg.TouchInterval)
		if err != nil {
			cfg.Logger.Warn("Throttle unavailable", zap.Error(err))
			return
		}
		if !allowed {
			return
		}
	}
	if err := cfg.Users.TouchLastActive(ctx, userID); err != nil {
		cfg.Logger.Warn("Failed to touch last activity", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func abortUnauthorized(c *gin.Context, cfg JWTMiddlewareConfig, err error, msgID string) {
	if err != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}
	fallback := "Authentication required"
	if errors.Is(err, auth.ErrExpiredToken) {
		fallback = "Token has expired"
	} else if errors.Is(err, auth.ErrTokenRevoked) {
		fallback = "Token has been revoked"
	}
	abortWithError(c, cfg.Translator, dto.ErrCodeUnauthorized, msgID, fallback)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetActor returns the signed-in user of the request
func GetActor(c *gin.Context) (appshared.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(appshared.Actor); ok {
			return actor, true
		}
	}
	return appshared.Actor{}, false
}

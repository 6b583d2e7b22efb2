package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/teashop/backend/internal/application/identity"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"github.com/teashop/backend/internal/interfaces/http/dto"
	"github.com/teashop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base BaseHandler, authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// Login authenticates with username and password.
// POST /auth/login answers {user, token} or {error}, outside the envelope.
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.LoginFailure{Error: h.localize(c, i18n.MsgValidation, "Invalid request body")})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.LoginSuccess{User: toUserResponse(result.User), Token: result.Token})
	case errors.Is(err, shared.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.LoginFailure{Error: h.localize(c, i18n.MsgInvalidCredentials, "Invalid username or password")})
	case errors.Is(err, shared.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.LoginFailure{Error: h.localize(c, i18n.MsgValidation, "Invalid request body")})
	default:
		logger.From(c.Request.Context()).Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.LoginFailure{Error: h.localize(c, i18n.MsgLoginFailed, "Login failed")})
	}
}

// Logout revokes the bearer token of the request
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	actor, ok := h.actor(c)
	if !ok || claims == nil {
		return
	}

	input := identityapp.LogoutInput{UserID: actor.ID, TokenJTI: claims.ID}
	if claims.ExpiresAt != nil {
		input.ExpiresAt = claims.ExpiresAt.Time
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser returns the signed-in user and its capabilities
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.authService.GetCurrentUser(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CurrentUserResponse{User: toUserResponse(result.User), Capabilities: result.Capabilities})
}

// GetPermissions returns the capability table of the caller's role
func (h *AuthHandler) GetPermissions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	h.Success(c, PermissionsResponse{
		Role:         actor.Role,
		RoleTitle:    actor.Role.Title(),
		Capabilities: identity.CapabilitiesOf(actor.Role),
	})
}

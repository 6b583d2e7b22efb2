package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

// RequireCapability lets the request through when the actor's role holds
// any of the capabilities. It must run after JWTAuth.
func RequireCapability(tr *i18n.Translator, capabilities ...identity.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWithError(c, tr, dto.ErrCodeUnauthorized, i18n.MsgUnauthorized, "Authentication required")
			return
		}
		for _, capability := range capabilities {
			if actor.Can(capability) {
				c.Next()
				return
			}
		}
		abortWithError(c, tr, dto.ErrCodeForbidden, i18n.MsgForbidden, "Permission denied")
	}
}

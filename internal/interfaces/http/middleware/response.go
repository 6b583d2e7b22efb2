package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

// abortWithError stops the chain with the standard error envelope. The
// message is localized when a translator is available.
func abortWithError(c *gin.Context, tr *i18n.Translator, code, msgID, fallback string) {
	message := fallback
	if tr != nil && msgID != "" {
		message = tr.T(c, msgID)
	}
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}

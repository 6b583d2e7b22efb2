package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. Routes named in perRoute, by
// their registered path, get their own cap instead.
func BodyLimit(maxBytes int64, perRoute map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if routeLimit, ok := perRoute[c.FullPath()]; ok {
			limit = routeLimit
		}
		if c.Request.ContentLength > limit {
			abortWithError(c, nil, dto.ErrCodeRequestTooLarge, "", "Request body exceeds maximum allowed size")
			return
		}
		// chunked bodies have no length up front
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

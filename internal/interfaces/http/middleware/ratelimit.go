package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teashop/backend/internal/infrastructure/cache"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

// RateLimit limits requests per client IP.
func RateLimit(limiter cache.WindowLimiter, tr *i18n.Translator) gin.HandlerFunc {
	return RateLimitByKey(limiter, tr, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey limits requests per key. A limiter outage lets requests
// through and is recorded on the gin context for the access log.
func RateLimitByKey(limiter cache.WindowLimiter, tr *i18n.Translator, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		quota, err := limiter.Take(c.Request.Context(), keyFunc(c))
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(quota.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		if !quota.Allowed {
			abortWithError(c, tr, dto.ErrCodeRateLimited, i18n.MsgTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}

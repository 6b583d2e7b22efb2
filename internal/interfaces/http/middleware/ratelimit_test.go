package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/teashop/backend/internal/infrastructure/cache"
	"github.com/teashop/backend/internal/infrastructure/i18n"
)

type brokenLimiter struct{}

func (brokenLimiter) Take(context.Context, string) (cache.Quota, error) {
	return cache.Quota{}, errors.New("redis: connection refused")
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(cache.NewInMemoryWindowLimiter(1, time.Minute), i18n.MustNew("zh-TW")))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "RATE_LIMITED", e.Code)
	assert.Equal(t, "請求過於頻繁，請稍後再試", e.Message)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	var recorded []string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		recorded = c.Errors.Errors()
	})
	router.Use(RateLimit(brokenLimiter{}, nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.Len(t, recorded, 1)
}

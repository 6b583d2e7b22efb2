package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"github.com/teashop/backend/internal/infrastructure/cache"
	"github.com/teashop/backend/internal/infrastructure/config"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars-long",
		Expiration: expiration,
		Issuer:     "test-issuer",
	})
}

type touchRecorder struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *touchRecorder) TouchLastActive(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
	return nil
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": actor.Role})
	})
	return router
}

func get(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, identity.RoleBarLeader, "阿吧")
	require.NoError(t, err)

	rec := get(newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService}), token.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+userID.String()+`","role":"BAR_LEADER"}`, rec.Body.String())
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	tr := i18n.MustNew("zh-TW")
	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, Translator: tr})

	t.Run("missing header", func(t *testing.T) {
		rec := get(router, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		e := decodeError(t, rec)
		assert.Equal(t, "UNAUTHORIZED", e.Code)
		assert.Equal(t, "請先登入", e.Message)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := get(router, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "登入憑證無效或已過期", decodeError(t, rec).Message)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-at-least-32-chars", Expiration: time.Hour})
		token, err := other.GenerateToken(uuid.New(), identity.RoleAdmin, "x")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(router, token.Token).Code)
	})
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	revocations := auth.NewMemoryRevocations()
	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, Revocations: revocations})

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, identity.RoleService, "小美")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(router, token.Token).Code)

	claims, err := jwtService.ValidateToken(token.Token)
	require.NoError(t, err)
	require.NoError(t, revocations.RevokeToken(context.Background(), claims.ID, time.Hour))

	rec := get(router, token.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
}

func TestJWTAuth_RevokedStaff(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	revocations := auth.NewMemoryRevocations()
	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, Revocations: revocations})

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, identity.RoleService, "小美")
	require.NoError(t, err)

	require.NoError(t, revocations.RevokeStaff(context.Background(), userID.String(), time.Hour))

	assert.Equal(t, http.StatusUnauthorized, get(router, token.Token).Code)
}

func TestJWTAuth_TouchesLastActiveOncePerWindow(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	throttle := cache.NewInMemoryThrottle()
	t.Cleanup(func() { _ = throttle.Close() })
	users := &touchRecorder{}
	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, Users: users, Throttle: throttle})

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, identity.RoleService, "小美")
	require.NoError(t, err)

	for range 3 {
		require.Equal(t, http.StatusOK, get(router, token.Token).Code)
	}
	assert.Equal(t, []uuid.UUID{userID}, users.calls)
}

func TestGetActor_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	actor, ok := GetActor(c)
	assert.False(t, ok)
	assert.Equal(t, appshared.Actor{}, actor)
	assert.Nil(t, GetJWTClaims(c))
}

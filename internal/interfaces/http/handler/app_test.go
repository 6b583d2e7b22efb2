package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	identityapp "github.com/teashop/backend/internal/application/identity"
	inventoryapp "github.com/teashop/backend/internal/application/inventory"
	scheduleapp "github.com/teashop/backend/internal/application/schedule"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"github.com/teashop/backend/internal/infrastructure/config"
	"github.com/teashop/backend/internal/infrastructure/event"
	"github.com/teashop/backend/internal/infrastructure/i18n"
	"github.com/teashop/backend/internal/infrastructure/persistence"
	"github.com/teashop/backend/internal/interfaces/http/dto"
	"github.com/teashop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	seedUsername = "weiwei"
	seedPassword = "920321"
)

// testApp runs the handlers against an in-memory sqlite database
type testApp struct {
	engine *gin.Engine
	users  *persistence.GormUserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, log, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	users := persistence.NewGormUserRepository(db.DB)
	_, err = identityapp.NewSeeder(users, config.SeedConfig{
		SuperAdminUsername: seedUsername,
		SuperAdminPassword: seedPassword,
		SuperAdminName:     "超級管理者",
	}, log).EnsureSuperAdmin(ctx)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars-long",
		Expiration: time.Hour,
		Issuer:     "teashop-test",
	})
	revocations := auth.NewMemoryRevocations()
	bus := event.NewInMemoryEventBus(log)
	directory := identity.NewUserDirectory(users)
	tr := i18n.MustNew("zh-TW")
	base := NewBaseHandler(tr)

	authHandler := NewAuthHandler(base, identityapp.NewAuthService(users, jwtService, revocations, bus, log))
	inventoryHandler := NewInventoryHandler(base, inventoryapp.NewService(
		persistence.NewGormSupplierRepository(db.DB),
		persistence.NewGormItemRepository(db.DB),
		directory, bus, log,
	))
	scheduleHandler := NewScheduleHandler(base, scheduleapp.NewService(
		persistence.NewGormWeeklyScheduleRepository(db.DB),
		persistence.NewGormTimeSlotRepository(db.DB),
		directory, bus, time.Sunday, log,
	))

	engine := gin.New()
	engine.Use(tr.Middleware())
	engine.POST("/auth/login", authHandler.Login)

	api := engine.Group("/api", middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		Users:       users,
		Translator:  tr,
	}))
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.GetCurrentUser)

	api.POST("/inventory/suppliers", inventoryHandler.CreateSupplier)
	api.POST("/inventory/items", inventoryHandler.CreateItem)
	api.POST("/inventory/items/import", inventoryHandler.ImportItems)
	api.GET("/inventory/items/low-stock", inventoryHandler.GetLowStockItems)
	api.GET("/inventory/items/:id", inventoryHandler.GetItem)
	api.GET("/inventory/items/:id/records", inventoryHandler.GetItemRecords)
	api.POST("/inventory/items/:id/check", inventoryHandler.CheckStock)
	api.POST("/inventory/items/:id/adjust", inventoryHandler.AdjustStock)

	api.POST("/schedule/time-slots", scheduleHandler.CreateTimeSlot)
	api.POST("/schedule/weeks", scheduleHandler.CreateWeek)
	api.GET("/schedule/weeks", scheduleHandler.GetWeek)
	api.POST("/schedule/weeks/:id/assignments", scheduleHandler.AddAssignment)
	api.POST("/schedule/weeks/:id/assignments/:aid/complete", scheduleHandler.CompleteAssignment)

	return &testApp{engine: engine, users: users}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

// login signs in with the seeded super admin
func (a *testApp) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": seedUsername, "password": seedPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// decode unwraps a success envelope into dst
func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.True(t, resp.Success, rec.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(resp.Data, dst))
	}
}

// decodeError unwraps a failure envelope
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

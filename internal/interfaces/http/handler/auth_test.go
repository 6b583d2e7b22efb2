package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

func TestAuthHandler_Login(t *testing.T) {
	app := newTestApp(t)

	t.Run("seeded super admin", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": seedUsername, "password": seedPassword})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User  UserResponse `json:"user"`
			Token string       `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, seedUsername, resp.User.Username)
		assert.Equal(t, identity.RoleSuperAdmin, resp.User.Role)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": seedUsername, "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp dto.LoginFailure
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "帳號或密碼錯誤", resp.Error)
		assert.NotContains(t, rec.Body.String(), "token")
	})

	t.Run("unknown user looks the same as a wrong password", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "ghost", "password": seedPassword})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "帳號或密碼錯誤")
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": seedUsername})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp dto.LoginFailure
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	})
}

func TestAuthHandler_CurrentUserAndLogout(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me CurrentUserResponse
	decode(t, rec, &me)
	assert.Equal(t, seedUsername, me.User.Username)
	assert.ElementsMatch(t, identity.AllCapabilities, me.Capabilities)

	rec = app.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, rec).Code)
}

func TestAuthHandler_RequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "請先登入", decodeError(t, rec).Message)

	rec = app.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wardrobe/backend/internal/infrastructure/auth"
	"github.com/wardrobe/backend/internal/infrastructure/config"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		Audience:              "authenticated",
		AccessTokenExpiration: expiration,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(userID, "ines@example.com")
	require.NoError(t, err)
	return token
}

func whoAmIRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), mw)
	router.GET("/me", func(c *gin.Context) {
		id, ok := GetJWTUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "authenticated": ok})
	})
	return router
}

func getMe(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.False(t, resp.Success)
	return resp.Error.Code
}

func TestAuthenticator_Required(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := whoAmIRouter(NewAuthenticator(svc, nil).Required())

	t.Run("valid token", func(t *testing.T) {
		userID := uuid.New()
		rec := getMe(router, "Bearer "+newTestToken(t, svc, userID))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":"`+userID.String()+`","authenticated":true}`, rec.Body.String())
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		rec := getMe(router, "bearer "+newTestToken(t, svc, uuid.New()))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthenticator_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired := newTestJWTService(-5 * time.Minute)
	otherSecret := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-of-32-characters",
		Issuer:                "test-issuer",
		Audience:              "authenticated",
		AccessTokenExpiration: time.Minute,
	})

	core, logs := observer.New(zap.WarnLevel)
	router := whoAmIRouter(NewAuthenticator(svc, zap.New(core)).Required())

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "ERR_UNAUTHORIZED"},
		{"not a bearer", "Basic dXNlcjpwYXNz", "ERR_UNAUTHORIZED"},
		{"empty token", "Bearer ", "ERR_UNAUTHORIZED"},
		{"garbage", "Bearer not.a.jwt", "ERR_TOKEN_INVALID"},
		{"wrong signature", "Bearer " + newTestToken(t, otherSecret, uuid.New()), "ERR_TOKEN_INVALID"},
		{"expired", "Bearer " + newTestToken(t, expired, uuid.New()), "ERR_TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getMe(router, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec.Body.Bytes()))
		})
	}

	assert.Equal(t, len(tests), logs.FilterMessage("JWT authentication failed").Len())
}

func TestAuthenticator_SetsLoggerUserID(t *testing.T) {
	svc := newTestJWTService(time.Minute)
	userID := uuid.New()

	router := gin.New()
	router.Use(NewAuthenticator(svc, nil).Required())
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetUserID(c.Request.Context()))
	})

	rec := getMe(router, "Bearer "+newTestToken(t, svc, userID))
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestAuthenticator_Optional(t *testing.T) {
	svc := newTestJWTService(time.Minute)
	router := whoAmIRouter(NewAuthenticator(svc, nil).Optional())

	t.Run("anonymous passes", func(t *testing.T) {
		rec := getMe(router, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("invalid token passes anonymously", func(t *testing.T) {
		rec := getMe(router, "Bearer garbage")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("valid token sets the user", func(t *testing.T) {
		userID := uuid.New()
		rec := getMe(router, "Bearer "+newTestToken(t, svc, userID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), userID.String())
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Bearer", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestGetJWTUserID_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetJWTUserID(c)
	assert.False(t, ok)

	c.Set(JWTUserIDKey, uuid.Nil)
	_, ok = GetJWTUserID(c)
	assert.False(t, ok)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropship/backend/internal/infrastructure/auth"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-test-secret-test-secret",
		Expiration: time.Hour,
		Issuer:     "test",
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newJWTService()
	userID := uuid.New()

	r := gin.New()
	r.Use(JWTAuthMiddleware(svc))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, userID, GetJWTUserUUID(c))
		assert.Equal(t, "jane", GetJWTUsername(c))
		c.Status(http.StatusOK)
	})

	t.Run("valid token passes", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "jane", false)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newJWTService()

	r := gin.New()
	r.Use(OptionalJWTAuthMiddleware(svc))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})

	t.Run("anonymous request passes with no claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("valid token populates claims", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.GenerateToken(userID, "jane", false)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, userID.String(), w.Body.String())
	})
}

func TestRequireSuperuser(t *testing.T) {
	svc := newJWTService()

	r := gin.New()
	r.Use(JWTAuthMiddleware(svc), RequireSuperuser())
	r.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("superuser allowed", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), "admin", true)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), "jane", false)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/palette/art-club-go/config"
	models "github.com/palette/art-club-go/models"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret}
}

func signTestToken(t *testing.T, secret string, id primitive.ObjectID, isAdmin bool, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":      id.Hex(),
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func performRequest(handler gin.HandlerFunc, authHeader string, extra ...gin.HandlerFunc) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	handler(c)
	for _, h := range extra {
		if c.IsAborted() {
			break
		}
		h(c)
	}
	return w, c
}

func TestProtect(t *testing.T) {
	cfg := testConfig()
	userID := primitive.NewObjectID()

	t.Run("valid token sets the principal", func(t *testing.T) {
		token := signTestToken(t, testSecret, userID, false, time.Hour)
		w, c := performRequest(Protect(cfg), "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		user, ok := CurrentUser(c)
		require.True(t, ok)
		assert.Equal(t, models.AuthUser{ID: userID}, user)
	})

	t.Run("admin claim survives the round trip", func(t *testing.T) {
		token := signTestToken(t, testSecret, userID, true, time.Hour)
		_, c := performRequest(Protect(cfg), "Bearer "+token)

		user, ok := CurrentUser(c)
		require.True(t, ok)
		assert.True(t, user.IsAdmin)
	})

	t.Run("missing header", func(t *testing.T) {
		w, c := performRequest(Protect(cfg), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, c.IsAborted())
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signTestToken(t, "some-other-secret", userID, false, time.Hour)
		w, _ := performRequest(Protect(cfg), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signTestToken(t, testSecret, userID, false, -time.Minute)
		w, _ := performRequest(Protect(cfg), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w, _ := performRequest(Protect(cfg), "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without a user id", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		w, _ := performRequest(Protect(cfg), "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	cfg := testConfig()
	userID := primitive.NewObjectID()

	t.Run("valid token sets the principal", func(t *testing.T) {
		token := signTestToken(t, testSecret, userID, false, time.Hour)
		w, c := performRequest(OptionalAuth(cfg), "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		_, ok := CurrentUser(c)
		assert.True(t, ok)
	})

	t.Run("no token continues anonymously", func(t *testing.T) {
		w, c := performRequest(OptionalAuth(cfg), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, c.IsAborted())
		_, ok := CurrentUser(c)
		assert.False(t, ok)
	})

	t.Run("bad token also continues anonymously", func(t *testing.T) {
		w, c := performRequest(OptionalAuth(cfg), "Bearer nonsense")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, c.IsAborted())
		_, ok := CurrentUser(c)
		assert.False(t, ok)
	})
}

func TestAdminOnly(t *testing.T) {
	cfg := testConfig()

	t.Run("admin passes", func(t *testing.T) {
		token := signTestToken(t, testSecret, primitive.NewObjectID(), true, time.Hour)
		w, c := performRequest(Protect(cfg), "Bearer "+token, AdminOnly())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, c.IsAborted())
	})

	t.Run("member is rejected", func(t *testing.T) {
		token := signTestToken(t, testSecret, primitive.NewObjectID(), false, time.Hour)
		w, c := performRequest(Protect(cfg), "Bearer "+token, AdminOnly())

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.True(t, c.IsAborted())
	})

	t.Run("no principal is rejected", func(t *testing.T) {
		w, c := performRequest(AdminOnly(), "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.True(t, c.IsAborted())
	})
}

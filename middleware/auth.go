package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/palette/art-club-go/config"
	models "github.com/palette/art-club-go/models"
)

const authUserKey = "auth_user"

// Protect requires a valid bearer token and stores the authenticated principal
// on the context as a models.AuthUser value.
func Protect(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := parseBearer(cfg, c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}
		c.Set(authUserKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// continues anonymously otherwise. Used on routes whose response depends on
// who is asking (artwork listings).
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := parseBearer(cfg, c); err == nil {
			c.Set(authUserKey, user)
		}
		c.Next()
	}
}

// AdminOnly must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized to access this route"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal set by Protect/OptionalAuth.
func CurrentUser(c *gin.Context) (models.AuthUser, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return models.AuthUser{}, false
	}
	user, ok := v.(models.AuthUser)
	return user, ok
}

func parseBearer(cfg *config.Config, c *gin.Context) (models.AuthUser, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return models.AuthUser{}, errors.New("no bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.AuthUser{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.AuthUser{}, errors.New("invalid claims")
	}

	idHex, _ := claims["id"].(string)
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return models.AuthUser{}, errors.New("invalid user id in token")
	}
	isAdmin, _ := claims["isAdmin"].(bool)

	return models.AuthUser{ID: id, IsAdmin: isAdmin}, nil
}

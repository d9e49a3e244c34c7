package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/models"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	UserIDKey          = "userId"
)

type AccessTokenParser interface {
	ParseAccess(raw string) (primitive.ObjectID, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth accepts the access token from the accessToken cookie or a bearer
// header and stores the caller's id under "userId".
func Auth(tokens AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := accessTokenFromRequest(c)
		if raw == "" {
			log.Warn().Str("path", c.FullPath()).Msg("auth: missing token")
			abort(c, http.StatusUnauthorized, "Proporcione un token")
			return
		}

		userID, err := tokens.ParseAccess(raw)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("auth: token validation failed")
			abort(c, http.StatusUnauthorized, "No has iniciado sesión")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func accessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	return BearerToken(c.GetHeader("Authorization"))
}

// BearerToken returns the token part of an Authorization header, or "".
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAdmin must run after Auth. Callers that are not admins get a 400.
func RequireAdmin(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(UserIDKey)
		userID, ok := value.(primitive.ObjectID)
		if !ok {
			abort(c, http.StatusUnauthorized, "No has iniciado sesión")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Str("userId", userID.Hex()).Msg("admin guard: user lookup failed")
			abort(c, http.StatusInternalServerError, "Permisos denegados")
			return
		}
		if user == nil || !user.IsAdmin() {
			log.Warn().Str("userId", userID.Hex()).Str("path", c.FullPath()).Msg("admin guard: permission denied")
			abort(c, http.StatusBadRequest, "Permisos denegados")
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
		"error":   true,
		"success": false,
	})
}

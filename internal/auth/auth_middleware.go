package auth

import (
	"errors"
	"net/http"
	"strings"

	"datefinder/backend/internal/models"
	"datefinder/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// AuthMiddleware requires a valid bearer token for an existing, enabled user.
// The user is stored in the context under UserKey.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return authenticate(db, secret, false)
}

// StreamAuthMiddleware behaves like AuthMiddleware but also accepts the token
// in the access_token query parameter, since EventSource cannot set headers.
func StreamAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return authenticate(db, secret, true)
}

func authenticate(db *gorm.DB, secret string, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" && allowQuery {
			tokenString = c.Query("access_token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		userID, err := jwt.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		if user.Disabled {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Banned user"})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

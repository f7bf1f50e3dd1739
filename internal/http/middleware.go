package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/policy"
	"github.com/inkletapp/inklet/internal/service"
)

const viewerKey = "viewer"

// resolveViewer parses the Bearer token and loads the matching account.
// Returns nil for a missing/invalid token or a vanished account.
func resolveViewer(c *gin.Context, secret []byte, db *gorm.DB) *policy.Viewer {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	userID, err := service.ParseToken(secret, token)
	if err != nil {
		return nil
	}
	var user models.User
	if err := db.Select("id", "username").First(&user, userID).Error; err != nil {
		return nil
	}
	return &policy.Viewer{ID: user.ID, Username: user.Username}
}

// AuthRequired rejects requests without a valid authenticated viewer.
func AuthRequired(secret []byte, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := resolveViewer(c, secret, db)
		if viewer == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "You must be signed in"})
			return
		}
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// OptionalAuth attaches the viewer when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(secret []byte, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewer := resolveViewer(c, secret, db); viewer != nil {
			c.Set(viewerKey, viewer)
		}
		c.Next()
	}
}

// viewerFrom returns the request's viewer, nil when anonymous.
func viewerFrom(c *gin.Context) *policy.Viewer {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*policy.Viewer)
	return viewer
}

// SecurityHeadersMiddleware adds basic, sensible security headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

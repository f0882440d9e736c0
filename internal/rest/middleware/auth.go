package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invixio/invixio/internal/auth"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/types"
)

// AuthenticateMiddleware authenticates requests via a JWT bearer token in the
// Authorization header and stores the caller's identity in the request
// context for downstream handlers.
func AuthenticateMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	authProvider := auth.NewProvider(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authProvider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.UserID)
		if claims.Email != "" {
			ctx = types.SetUserEmail(ctx, claims.Email)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CronAuthMiddleware authenticates the external scheduler that triggers cron
// endpoints via a shared secret header.
func CronAuthMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Cron.Secret == "" || c.GetHeader(types.HeaderCronSecret) != cfg.Cron.Secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

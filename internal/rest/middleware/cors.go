package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/types"
)

// CORSMiddleware lets the configured dashboard origins call the API from a
// browser. Requests from origins outside the list get no allow-origin header
// and are refused by the browser.
func CORSMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(cfg.Server.AllowedOrigins))
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if allowAll {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Add("Vary", "Origin")
			if _, ok := allowed[c.GetHeader("Origin")]; ok {
				h.Set("Access-Control-Allow-Origin", c.GetHeader("Origin"))
			}
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+types.HeaderRequestID)
		h.Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

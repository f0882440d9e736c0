package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/invixio/invixio/internal/config"
	"github.com/invixio/invixio/internal/types"
)

// SentryMiddleware reports panics and request errors to Sentry, tagging each
// event with the request id so events line up with the structured logs.
// RequestIDMiddleware must run earlier in the chain.
func SentryMiddleware(cfg *config.Configuration) []gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return nil
	}

	capture := sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
	tag := func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag("request_id", types.GetRequestID(c.Request.Context()))
		}
		c.Next()
	}
	return []gin.HandlerFunc{capture, tag}
}

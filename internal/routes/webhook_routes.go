package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/revaspay/payment-webhooks/internal/api"
	"github.com/revaspay/payment-webhooks/internal/middleware"
)

// SetupWebhookRoutes configures the payment provider callback route.
// Every method is routed to the handler so non-POST requests get a 405 body.
func SetupWebhookRoutes(router *gin.Engine, path string, webhookHandler *api.MoMoWebhookHandler, rateLimiter *middleware.RateLimiter) {
	handlers := []gin.HandlerFunc{middleware.SecureHeaders()}
	if rateLimiter != nil {
		handlers = append(handlers, rateLimiter.Middleware())
	}
	handlers = append(handlers, webhookHandler.PaymentNotification)

	router.Any(path, handlers...)
}

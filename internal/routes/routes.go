package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/revaspay/payment-webhooks/internal/api"
	"github.com/revaspay/payment-webhooks/internal/middleware"
)

// NewRouter creates the engine with access logging and panic recovery. Forwarding
// headers such as X-Forwarded-For are only honoured from trustedProxies; with none,
// the client IP is always the TCP peer.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	return router, nil
}

// RegisterHealthRoutes registers the liveness probe
func RegisterHealthRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterAdminRoutes registers the settlement inspection API. Without a JWT
// secret nothing is mounted and the routes answer 404. auditHandler may be nil
// when no audit store is attached.
func RegisterAdminRoutes(router *gin.Engine, settlementHandler *api.SettlementHandler, auditHandler *api.AuditHandler, jwtSecret string) bool {
	if jwtSecret == "" {
		return false
	}

	adminGroup := router.Group("/api/v1/admin")
	adminGroup.Use(middleware.AuthMiddleware(jwtSecret))
	adminGroup.Use(middleware.AdminMiddleware())
	{
		adminGroup.GET("/settlements/:transactionId", settlementHandler.GetSettlement)
		if auditHandler != nil {
			adminGroup.GET("/settlements/:transactionId/audit", auditHandler.GetTransactionAuditLogs)
		}
	}
	return true
}

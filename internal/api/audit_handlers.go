package api

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/revaspay/payment-webhooks/internal/security/audit"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditLogReader reads the persisted audit trail of a transaction
type AuditLogReader interface {
	GetTransactionLogs(ctx context.Context, transactionID string, limit int) ([]audit.AuditLog, error)
}

// AuditHandler exposes the audit trail of a settlement to administrators
type AuditHandler struct {
	logs AuditLogReader
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logs AuditLogReader) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// GetTransactionAuditLogs returns audit entries for a transaction, newest first.
// The optional limit query parameter is capped at 200.
func (h *AuditHandler) GetTransactionAuditLogs(c *gin.Context) {
	transactionID := c.Param("transactionId")

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, MessageInvalidLimit)
			return
		}
		limit = parsed
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	logs, err := h.logs.GetTransactionLogs(c.Request.Context(), transactionID, limit)
	if err != nil {
		log.Printf("Failed to load audit logs for %s: %v", transactionID, err)
		respondError(c, http.StatusServiceUnavailable, MessageAuditUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction_id": transactionID,
		"logs":           logs,
	})
}

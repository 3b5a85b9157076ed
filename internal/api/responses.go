package api

import "github.com/gin-gonic/gin"

// Error messages returned to callers. Internal details are never echoed.
const (
	MessageMethodNotAllowed    = "Method Not Allowed"
	MessageServerMisconfigured = "Server Misconfigured"
	MessageInvalidPayload      = "Invalid Payload"
	MessageInvalidSignature    = "Invalid Signature"
	MessageLedgerUnavailable   = "Ledger Unavailable"
	MessageSettlementNotFound  = "Settlement Not Found"
	MessageInternalError       = "Internal Server Error"
	MessageInvalidLimit        = "Invalid Limit"
	MessageAuditUnavailable    = "Audit Log Unavailable"
)

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

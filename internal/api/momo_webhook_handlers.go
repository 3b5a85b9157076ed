package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revaspay/payment-webhooks/internal/ledger"
	"github.com/revaspay/payment-webhooks/internal/services/payment/momo"
)

const defaultMaxBodyBytes = 1 << 20 // 1MB

// MoMoWebhookHandler handles payment notification callbacks from the mobile money provider
type MoMoWebhookHandler struct {
	settlements  *momo.SettlementService
	maxBodyBytes int64
}

// NewMoMoWebhookHandler creates a new MoMo webhook handler
func NewMoMoWebhookHandler(settlements *momo.SettlementService, maxBodyBytes int64) *MoMoWebhookHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &MoMoWebhookHandler{
		settlements:  settlements,
		maxBodyBytes: maxBodyBytes,
	}
}

// PaymentNotification authenticates a provider notification and settles it exactly once.
// Every accepted delivery, including duplicates, is answered with 200 so the provider stops retrying.
func (h *MoMoWebhookHandler) PaymentNotification(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		respondError(c, http.StatusMethodNotAllowed, MessageMethodNotAllowed)
		return
	}

	if !h.settlements.Configured() {
		log.Println("Rejecting payment notification: webhook secret is not configured")
		respondError(c, http.StatusInternalServerError, MessageServerMisconfigured)
		return
	}

	// Read the request body
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, MessageInvalidPayload)
		return
	}

	// Parse the webhook payload
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		respondError(c, http.StatusUnprocessableEntity, MessageInvalidPayload)
		return
	}

	outcome, err := h.settlements.Process(c.Request.Context(), raw, c.ClientIP())
	if err != nil {
		var validationErr *momo.ValidationError
		switch {
		case errors.As(err, &validationErr):
			log.Printf("Rejected payment notification: %v", err)
			respondError(c, http.StatusUnprocessableEntity, MessageInvalidPayload)
		case errors.Is(err, momo.ErrSignatureInvalid):
			log.Printf("Rejected payment notification with invalid signature from %s", c.ClientIP())
			respondError(c, http.StatusUnauthorized, MessageInvalidSignature)
		case errors.Is(err, momo.ErrServerMisconfigured):
			respondError(c, http.StatusInternalServerError, MessageServerMisconfigured)
		case errors.Is(err, ledger.ErrUnavailable):
			log.Printf("Failed to settle payment notification: %v", err)
			respondError(c, http.StatusServiceUnavailable, MessageLedgerUnavailable)
		default:
			log.Printf("Unexpected error settling payment notification: %v", err)
			respondError(c, http.StatusInternalServerError, MessageInternalError)
		}
		return
	}

	c.Header("X-Settlement-Outcome", string(outcome))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revaspay/payment-webhooks/internal/ledger"
)

// SettlementHandler exposes read-only settlement lookups to administrators
type SettlementHandler struct {
	ledger ledger.Ledger
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(l ledger.Ledger) *SettlementHandler {
	return &SettlementHandler{ledger: l}
}

// GetSettlement returns the settlement record for a provider transaction id
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	transactionID := c.Param("transactionId")

	record, err := h.ledger.Get(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			respondError(c, http.StatusNotFound, MessageSettlementNotFound)
			return
		}
		if errors.Is(err, ledger.ErrUnavailable) {
			log.Printf("Failed to load settlement %s: %v", transactionID, err)
			respondError(c, http.StatusServiceUnavailable, MessageLedgerUnavailable)
			return
		}
		log.Printf("Unexpected error loading settlement %s: %v", transactionID, err)
		respondError(c, http.StatusInternalServerError, MessageInternalError)
		return
	}

	c.JSON(http.StatusOK, record)
}

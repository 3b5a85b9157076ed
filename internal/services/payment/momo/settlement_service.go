package momo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/revaspay/payment-webhooks/internal/ledger"
	"github.com/revaspay/payment-webhooks/internal/models"
	"github.com/revaspay/payment-webhooks/internal/security/audit"
	"github.com/revaspay/payment-webhooks/internal/utils"
)

// Outcome describes how an authenticated notification was applied
type Outcome string

const (
	// OutcomeSettled means a new settlement record was written
	OutcomeSettled Outcome = "settled"
	// OutcomeDuplicate means the transaction was already settled; nothing was written
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeAcknowledged means the state was not COMPLETED; nothing was written
	OutcomeAcknowledged Outcome = "acknowledged"
)

// SettlementService authenticates provider notifications and settles them exactly once
type SettlementService struct {
	secret string
	ledger ledger.Ledger
	audit  audit.Sink
	now    func() time.Time
}

// NewSettlementService creates a settlement service. An empty secret leaves the
// service misconfigured: every notification is refused with ErrServerMisconfigured.
func NewSettlementService(secret string, l ledger.Ledger, sink audit.Sink) *SettlementService {
	return &SettlementService{
		secret: strings.TrimSpace(secret),
		ledger: l,
		audit:  sink,
		now:    time.Now,
	}
}

// Configured reports whether a webhook secret is available
func (s *SettlementService) Configured() bool {
	return s.secret != ""
}

// Verify checks the notification signature against the configured secret
func (s *SettlementService) Verify(n Notification) error {
	if !s.Configured() {
		return ErrServerMisconfigured
	}
	if !utils.VerifyHMAC(n.CanonicalString(), n.Signature, s.secret) {
		return ErrSignatureInvalid
	}
	return nil
}

// Process runs validation, authentication and settlement for a decoded payload.
// sourceIP is only used for the audit trail.
func (s *SettlementService) Process(ctx context.Context, raw map[string]interface{}, sourceIP string) (Outcome, error) {
	if !s.Configured() {
		return "", ErrServerMisconfigured
	}

	notification, err := ParseNotification(raw)
	if err != nil {
		return "", err
	}

	if err := s.Verify(notification); err != nil {
		return "", err
	}

	return s.Settle(ctx, notification, sourceIP)
}

// Settle applies an authenticated notification. Only COMPLETED notifications touch the
// ledger, and the audit event is emitted only by the delivery that created the record.
func (s *SettlementService) Settle(ctx context.Context, n Notification, sourceIP string) (Outcome, error) {
	if !n.IsCompleted() {
		log.Printf("Acknowledged notification for transaction %s with state %s", n.TransactionID, n.State)
		return OutcomeAcknowledged, nil
	}

	record := &models.SettlementRecord{
		TransactionID:   n.TransactionID,
		MerchantOrderID: n.MerchantOrderID,
		Amount:          n.Amount,
		Currency:        n.Currency,
		PayerMsisdn:     n.PayerMsisdn,
		RawState:        n.State,
		RecordedAt:      s.now().UTC(),
	}

	inserted, err := s.ledger.TryInsert(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to record settlement: %w", err)
	}

	if !inserted {
		log.Printf("Duplicate settlement notification for transaction %s ignored", n.TransactionID)
		return OutcomeDuplicate, nil
	}

	log.Printf("Settled transaction %s for order %s: %s %s", n.TransactionID, n.MerchantOrderID, n.Amount, n.Currency)
	s.recordAudit(ctx, record, sourceIP)

	return OutcomeSettled, nil
}

func (s *SettlementService) recordAudit(ctx context.Context, record *models.SettlementRecord, sourceIP string) {
	if s.audit == nil {
		return
	}

	event := audit.Event{
		Type:          audit.EventTypeSettlementRecorded,
		Severity:      audit.SeverityInfo,
		Description:   "Payment settlement recorded",
		TransactionID: record.TransactionID,
		IPAddress:     sourceIP,
		OccurredAt:    record.RecordedAt,
		Metadata: map[string]interface{}{
			"merchant_order_id": record.MerchantOrderID,
			"amount":            record.Amount,
			"currency":          record.Currency,
			"settlement_id":     record.ID.String(),
		},
	}

	if err := s.audit.Record(ctx, event); err != nil {
		log.Printf("Failed to record audit event for transaction %s: %v", record.TransactionID, err)
	}
}

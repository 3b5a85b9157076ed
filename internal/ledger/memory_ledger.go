package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/revaspay/payment-webhooks/internal/models"
)

// MemoryLedger is an in-process ledger for tests and local development.
// The mutex is the single-writer point; records do not survive a restart.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string]models.SettlementRecord
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]models.SettlementRecord)}
}

func (l *MemoryLedger) TryInsert(_ context.Context, record *models.SettlementRecord) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.records[record.TransactionID]; exists {
		return false, nil
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	l.records[record.TransactionID] = *record
	return true, nil
}

func (l *MemoryLedger) Get(_ context.Context, transactionID string) (*models.SettlementRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[transactionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

// Len returns the number of stored records
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

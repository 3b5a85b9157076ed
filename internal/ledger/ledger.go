// Package ledger stores settlement records keyed by provider transaction id.
//
// Every implementation provides TryInsert as a single atomic insert-if-absent
// operation backed by the store's own primitive (unique index, SETNX, or a
// single mutex-guarded map). Callers must never emulate it with Get followed by
// an insert.
package ledger

import (
	"context"
	"errors"

	"github.com/revaspay/payment-webhooks/internal/models"
)

var (
	// ErrNotFound is returned by Get when no record exists for the transaction id
	ErrNotFound = errors.New("settlement record not found")

	// ErrUnavailable wraps infrastructure failures of the underlying store
	ErrUnavailable = errors.New("ledger unavailable")
)

// Ledger is the persistence collaborator of the settlement pipeline
type Ledger interface {
	// TryInsert stores the record unless one already exists for record.TransactionID.
	// inserted is false for duplicates; that is not an error.
	TryInsert(ctx context.Context, record *models.SettlementRecord) (inserted bool, err error)

	// Get returns the record for a transaction id or ErrNotFound
	Get(ctx context.Context, transactionID string) (*models.SettlementRecord, error)
}

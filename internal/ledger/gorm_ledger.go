package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/revaspay/payment-webhooks/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedger keeps settlement records in a SQL table with a unique index on transaction_id
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new SQL-backed ledger
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// TryInsert issues INSERT ... ON CONFLICT (transaction_id) DO NOTHING and reports
// whether a row was written
func (l *GormLedger) TryInsert(ctx context.Context, record *models.SettlementRecord) (bool, error) {
	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, fmt.Errorf("%w: insert settlement %s: %v", ErrUnavailable, record.TransactionID, result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Get loads a settlement record by provider transaction id
func (l *GormLedger) Get(ctx context.Context, transactionID string) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	err := l.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get settlement %s: %v", ErrUnavailable, transactionID, err)
	}

	return &record, nil
}

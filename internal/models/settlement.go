package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementRecord is the durable outcome of a verified COMPLETED provider notification.
// Exactly one row exists per provider transaction id; rows are never updated or deleted.
type SettlementRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"transaction_id"`
	MerchantOrderID string    `gorm:"type:varchar(255);not null;index" json:"merchant_order_id"`
	Amount          string    `gorm:"type:varchar(64);not null" json:"amount"`
	Currency        string    `gorm:"type:varchar(8);not null" json:"currency"`
	PayerMsisdn     string    `gorm:"type:varchar(32)" json:"payer_msisdn,omitempty"`
	RawState        string    `gorm:"type:varchar(32);not null" json:"raw_state"`
	RecordedAt      time.Time `gorm:"not null" json:"recorded_at"`
}

// TableName pins the table name used by migrations
func (SettlementRecord) TableName() string {
	return "settlement_records"
}

// BeforeCreate will set a UUID rather than numeric ID
func (r *SettlementRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

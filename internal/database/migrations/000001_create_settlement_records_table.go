package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/revaspay/payment-webhooks/internal/models"
	"gorm.io/gorm"
)

// CreateSettlementRecordsTable creates the settlement ledger. The unique index on
// transaction_id is what makes concurrent duplicate deliveries settle once.
func CreateSettlementRecordsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_settlement_records_table",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.SettlementRecord{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&models.SettlementRecord{})
		},
	}
}

package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/revaspay/payment-webhooks/internal/security/audit"
	"gorm.io/gorm"
)

// CreateAuditLogsTable creates the audit trail table
func CreateAuditLogsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_audit_logs_table",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&audit.AuditLog{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&audit.AuditLog{})
		},
	}
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType represents the type of audit event
type EventType string

// EventSeverity represents the severity level of an audit event
type EventSeverity string

const (
	// Event types
	EventTypeSettlementRecorded EventType = "settlement_recorded"

	// Severity levels
	SeverityInfo EventSeverity = "info"
)

// Event is a single audit occurrence handed to a Sink
type Event struct {
	Type          EventType
	Severity      EventSeverity
	Description   string
	TransactionID string
	IPAddress     string
	Metadata      map[string]interface{}
	OccurredAt    time.Time
}

// Sink receives audit events. Callers treat Record as fire-and-forget.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// AuditLog represents an audit log entry in the database
type AuditLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventType     string    `gorm:"type:varchar(64);index" json:"event_type"`
	Severity      string    `gorm:"type:varchar(16)" json:"severity"`
	Description   string    `json:"description"`
	TransactionID string    `gorm:"type:varchar(255);index" json:"transaction_id"`
	IPAddress     string    `gorm:"type:varchar(64)" json:"ip_address"`
	Metadata      string    `json:"metadata"` // JSON string of additional data
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Logger persists audit events through gorm
type Logger struct {
	db *gorm.DB
}

// NewLogger creates a new audit logger
func NewLogger(db *gorm.DB) *Logger {
	return &Logger{
		db: db,
	}
}

// Record stores an audit event
func (l *Logger) Record(ctx context.Context, event Event) error {
	var metadataJSON string
	if event.Metadata != nil {
		metadataBytes, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		metadataJSON = string(metadataBytes)
	}

	severity := event.Severity
	if severity == "" {
		severity = SeverityInfo
	}
	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	auditLog := AuditLog{
		EventType:     string(event.Type),
		Severity:      string(severity),
		Description:   event.Description,
		TransactionID: event.TransactionID,
		IPAddress:     event.IPAddress,
		Metadata:      metadataJSON,
		CreatedAt:     createdAt,
	}

	if err := l.db.WithContext(ctx).Create(&auditLog).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// GetTransactionLogs gets audit logs for a provider transaction, newest first
func (l *Logger) GetTransactionLogs(ctx context.Context, transactionID string, limit int) ([]AuditLog, error) {
	var logs []AuditLog
	err := l.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// PurgeBefore deletes audit logs created before the cutoff and returns how many were removed
func (l *Logger) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := l.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&AuditLog{})
	return result.RowsAffected, result.Error
}

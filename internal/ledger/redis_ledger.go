package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/revaspay/payment-webhooks/internal/models"
)

const settlementPrefix = "settlement:"

// RedisLedger keeps settlement records as JSON values and relies on SETNX for first-writer-wins
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger creates a new Redis-backed ledger
func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// TryInsert stores the record with SETNX; records never expire
func (l *RedisLedger) TryInsert(ctx context.Context, record *models.SettlementRecord) (bool, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to marshal settlement record: %w", err)
	}

	inserted, err := l.client.SetNX(ctx, settlementPrefix+record.TransactionID, data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("%w: setnx settlement %s: %v", ErrUnavailable, record.TransactionID, err)
	}

	return inserted, nil
}

// Get loads a settlement record by provider transaction id
func (l *RedisLedger) Get(ctx context.Context, transactionID string) (*models.SettlementRecord, error) {
	data, err := l.client.Get(ctx, settlementPrefix+transactionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get settlement %s: %v", ErrUnavailable, transactionID, err)
	}

	var record models.SettlementRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settlement record %s: %w", transactionID, err)
	}

	return &record, nil
}

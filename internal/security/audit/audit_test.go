package audit

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockSink is a mock implementation of the Sink interface
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Record(ctx context.Context, event Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// blockingSink holds every Record call until release is closed
type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	events  []Event
}

func (b *blockingSink) Record(_ context.Context, event Event) error {
	<-b.release
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&AuditLog{}))
	return db
}

func TestLogger_RecordAndQuery(t *testing.T) {
	db := setupTestDB(t)
	l := NewLogger(db)
	ctx := context.Background()

	err := l.Record(ctx, Event{
		Type:          EventTypeSettlementRecorded,
		Description:   "settlement recorded",
		TransactionID: "tx-1",
		IPAddress:     "10.0.0.1",
		Metadata:      map[string]interface{}{"amount": "10.00"},
	})
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Event{Type: EventTypeSettlementRecorded, TransactionID: "tx-2"}))

	logs, err := l.GetTransactionLogs(ctx, "tx-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(EventTypeSettlementRecorded), logs[0].EventType)
	assert.Equal(t, string(SeverityInfo), logs[0].Severity)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
	assert.JSONEq(t, `{"amount":"10.00"}`, logs[0].Metadata)
	assert.False(t, logs[0].CreatedAt.IsZero())
}

func TestLogger_PurgeBefore(t *testing.T) {
	db := setupTestDB(t)
	l := NewLogger(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, l.Record(ctx, Event{Type: EventTypeSettlementRecorded, TransactionID: "old", OccurredAt: now.Add(-100 * 24 * time.Hour)}))
	require.NoError(t, l.Record(ctx, Event{Type: EventTypeSettlementRecorded, TransactionID: "new", OccurredAt: now}))

	removed, err := l.PurgeBefore(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var count int64
	require.NoError(t, db.Model(&AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRetentionScheduler_Purge(t *testing.T) {
	db := setupTestDB(t)
	l := NewLogger(db)
	ctx := context.Background()

	fixed := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.Record(ctx, Event{Type: EventTypeSettlementRecorded, OccurredAt: fixed.AddDate(0, 0, -31)}))
	require.NoError(t, l.Record(ctx, Event{Type: EventTypeSettlementRecorded, OccurredAt: fixed.AddDate(0, 0, -1)}))

	r := NewRetentionScheduler(l, 30)
	r.now = func() time.Time { return fixed }
	r.Purge()

	var count int64
	require.NoError(t, db.Model(&AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRetentionScheduler_StartStop(t *testing.T) {
	r := NewRetentionScheduler(NewLogger(setupTestDB(t)), 30)
	require.NoError(t, r.Start())
	r.Stop()
}

func TestAsyncSink_DeliversAndDrainsOnClose(t *testing.T) {
	next := new(MockSink)
	next.On("Record", mock.Anything, mock.MatchedBy(func(e Event) bool { return e.TransactionID == "tx-1" })).Return(nil).Once()
	next.On("Record", mock.Anything, mock.MatchedBy(func(e Event) bool { return e.TransactionID == "tx-2" })).Return(errors.New("db down")).Once()

	s := NewAsyncSink(next, 8)
	require.NoError(t, s.Record(context.Background(), Event{TransactionID: "tx-1"}))
	require.NoError(t, s.Record(context.Background(), Event{TransactionID: "tx-2"}))
	s.Close()

	next.AssertExpectations(t)

	// Recording after close is a logged no-op
	assert.NoError(t, s.Record(context.Background(), Event{TransactionID: "tx-3"}))
	next.AssertNumberOfCalls(t, "Record", 2)
}

func TestAsyncSink_RecordNeverBlocks(t *testing.T) {
	next := &blockingSink{release: make(chan struct{})}
	s := NewAsyncSink(next, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = s.Record(context.Background(), Event{TransactionID: "tx"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a stalled sink")
	}

	close(next.release)
	s.Close()

	next.mu.Lock()
	defer next.mu.Unlock()
	assert.GreaterOrEqual(t, len(next.events), 1)
	assert.LessOrEqual(t, len(next.events), 2)
}

func TestLogSink_Record(t *testing.T) {
	assert.NoError(t, LogSink{}.Record(context.Background(), Event{Type: EventTypeSettlementRecorded}))
}

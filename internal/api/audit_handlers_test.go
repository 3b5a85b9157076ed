package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/revaspay/payment-webhooks/internal/security/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuditReader returns fixed logs and remembers the requested limit
type stubAuditReader struct {
	logs      []audit.AuditLog
	err       error
	lastLimit int
}

func (s *stubAuditReader) GetTransactionLogs(_ context.Context, transactionID string, limit int) ([]audit.AuditLog, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	var out []audit.AuditLog
	for _, l := range s.logs {
		if l.TransactionID == transactionID {
			out = append(out, l)
		}
	}
	return out, nil
}

func setupAuditRouter(reader AuditLogReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/settlements/:transactionId/audit", NewAuditHandler(reader).GetTransactionAuditLogs)
	return router
}

func TestGetTransactionAuditLogs(t *testing.T) {
	reader := &stubAuditReader{logs: []audit.AuditLog{
		{EventType: string(audit.EventTypeSettlementRecorded), TransactionID: "tx-9", IPAddress: "198.51.100.4"},
		{EventType: string(audit.EventTypeSettlementRecorded), TransactionID: "tx-other"},
	}}
	router := setupAuditRouter(reader)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settlements/tx-9/audit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultAuditLimit, reader.lastLimit)

	var body struct {
		TransactionID string           `json:"transaction_id"`
		Logs          []audit.AuditLog `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tx-9", body.TransactionID)
	require.Len(t, body.Logs, 1)
	assert.Equal(t, "198.51.100.4", body.Logs[0].IPAddress)
}

func TestGetTransactionAuditLogs_Limit(t *testing.T) {
	reader := &stubAuditReader{}
	router := setupAuditRouter(reader)

	tests := []struct {
		query     string
		wantCode  int
		wantLimit int
	}{
		{"?limit=5", http.StatusOK, 5},
		{"?limit=10000", http.StatusOK, maxAuditLimit},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			reader.lastLimit = 0
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settlements/tx-1/audit"+tt.query, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLimit, reader.lastLimit)
		})
	}
}

func TestGetTransactionAuditLogs_StoreFailure(t *testing.T) {
	router := setupAuditRouter(&stubAuditReader{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settlements/tx-1/audit", nil))
	assertError(t, rec, http.StatusServiceUnavailable, MessageAuditUnavailable)
}

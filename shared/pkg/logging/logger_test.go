package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultConfig("inventory-service")
	cfg.Level = level
	cfg.Output = buf
	return New(cfg), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerBaseAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.Info("hello")

	entry := decodeLine(t, buf)
	assert.Equal(t, "inventory-service", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Contains(t, entry, "environment")
	assert.Equal(t, "inventory-service", logger.ServiceName())
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Info("skipped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestLoggerContextAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	logger.WithContext(ctx).Info("with ids")

	entry := decodeLine(t, buf)
	assert.Equal(t, "req-1", entry["requestId"])
	assert.Equal(t, "corr-1", entry["correlationId"])
}

func TestLoggerWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	assert.Same(t, logger, logger.WithError(nil))

	logger.WithError(errors.New("boom")).WithComponent("ledger").Error("failed")

	entry := decodeLine(t, buf)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ledger", entry["component"])
}

func TestStockMovement(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.StockMovement(context.Background(), "ITM-1", "receipt", "100", "150", "10", "12")

	entry := decodeLine(t, buf)
	assert.Equal(t, "Stock movement", entry["msg"])
	assert.Equal(t, "150", entry["qtyAfter"])
	assert.Equal(t, "12", entry["avgCostAfter"])
}

func TestStoreOperationFailureIsError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.StoreOperation(context.Background(), "items", "update", 0, errors.New("timeout"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, false, entry["success"])
}

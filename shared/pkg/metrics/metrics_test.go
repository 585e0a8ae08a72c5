package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReconciliation(t *testing.T) {
	m := New(DefaultConfig("inventory-service"))

	m.RecordReconciliation("received", 20*time.Millisecond)
	m.RecordReconciliation("received", 10*time.Millisecond)
	m.RecordReconciliation("partial_failure", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("inventory-service", "received")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("inventory-service", "partial_failure")))
}

func TestRecordWriteConflict(t *testing.T) {
	m := New(DefaultConfig("inventory-service"))

	m.RecordWriteConflict("apply_receipt", true)
	m.RecordWriteConflict("apply_receipt", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteConflicts.WithLabelValues("inventory-service", "apply_receipt", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteConflicts.WithLabelValues("inventory-service", "apply_receipt", "false")))
}

func TestLowStockGauge(t *testing.T) {
	m := New(DefaultConfig("inventory-service"))

	m.SetLowStockItems(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.LowStockItems))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(DefaultConfig("inventory-service"))
	m.RecordReceiptApplied("fuel", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "station_receipts_applied_total")
}

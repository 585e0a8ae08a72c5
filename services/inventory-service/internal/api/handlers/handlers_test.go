package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/events"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/memory"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/middleware"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("inventory-service")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	logger := testLogger()
	m := metrics.New(metrics.DefaultConfig("inventory-service"))
	repos := memory.NewStore().Repositories()
	publisher := events.NewLogEventPublisher(logger)

	ledger := application.NewLedgerService(repos.Inventory, publisher, m, logger, application.DefaultLedgerConfig())
	deliveries := application.NewDeliveryService(repos.Deliveries, repos.Inventory, publisher, logger)
	reconciliation := application.NewReconciliationService(deliveries, ledger, publisher, m, logger)

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Items:      NewItemHandler(ledger, logger),
		Deliveries: NewDeliveryHandler(deliveries, reconciliation, logger),
		Reports:    NewReportHandler(application.NewReportService(repos, m, logger), logger),
		Records:    NewRecordsHandler(application.NewRecordsService(repos, logger), logger),
	})
	return router
}

func makeRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// data decodes the "data" envelope of a success response
func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Code
}

func createItem(t *testing.T, router *gin.Engine, name string, qty, avgCost, reorder float64) string {
	t.Helper()
	rec := makeRequest(router, http.MethodPost, "/api/v1/items", map[string]interface{}{
		"kind":         "fuel",
		"name":         name,
		"unit":         "L",
		"currentQty":   qty,
		"avgCost":      avgCost,
		"reorderLevel": reorder,
		"category":     "Fuel",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return data(t, rec)["id"].(string)
}

func TestItemHandlerCreateAndGet(t *testing.T) {
	router := newRouter(t)
	id := createItem(t, router, "Diesel", 22000, 2.9, 10000)

	rec := makeRequest(router, http.MethodGet, "/api/v1/items/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	item := data(t, rec)
	assert.Equal(t, "Diesel", item["name"])
	assert.Equal(t, "22000", item["currentQty"])
	assert.Equal(t, false, item["isLowStock"])

	rec = makeRequest(router, http.MethodGet, "/api/v1/items/ITM-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", errorCode(t, rec))
}

func TestItemHandlerCreateValidation(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{
			name: "unknown kind",
			body: map[string]interface{}{"kind": "gas", "name": "X", "unit": "L"},
			code: "VALIDATION_ERROR",
		},
		{
			name: "missing name",
			body: map[string]interface{}{"kind": "fuel", "unit": "L"},
			code: "VALIDATION_ERROR",
		},
		{
			name: "negative quantity",
			body: map[string]interface{}{"kind": "shop", "name": "Water", "unit": "pcs", "currentQty": -1},
			code: "INVALID_QUANTITY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := makeRequest(router, http.MethodPost, "/api/v1/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestItemHandlerApplyReceipt(t *testing.T) {
	router := newRouter(t)
	id := createItem(t, router, "Special 95", 100, 10, 0)

	rec := makeRequest(router, http.MethodPost, "/api/v1/items/"+id+"/receipts", map[string]interface{}{
		"qty":      50,
		"unitCost": 16,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := data(t, rec)
	assert.Equal(t, "150", item["currentQty"])
	assert.Equal(t, "12", item["avgCost"])

	rec = makeRequest(router, http.MethodPost, "/api/v1/items/"+id+"/receipts", map[string]interface{}{
		"qty":      0,
		"unitCost": 16,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, rec))
}

func TestItemHandlerListAndDelete(t *testing.T) {
	router := newRouter(t)
	id := createItem(t, router, "Super 98", 12500, 2.85, 5000)
	createItem(t, router, "Diesel", 22000, 2.9, 10000)

	rec := makeRequest(router, http.MethodGet, "/api/v1/items?search=super", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data  []map[string]interface{} `json:"data"`
		Count int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Data[0]["id"])

	rec = makeRequest(router, http.MethodDelete, "/api/v1/items/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = makeRequest(router, http.MethodDelete, "/api/v1/items/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeliveryHandlerReceive(t *testing.T) {
	router := newRouter(t)
	id := createItem(t, router, "Diesel", 100, 10, 200)

	rec := makeRequest(router, http.MethodPost, "/api/v1/deliveries", map[string]interface{}{
		"supplierId":  "SUP-1",
		"referenceNo": "INV-1001",
		"items": []map[string]interface{}{
			{"inventoryItemId": id, "qty": 50, "unitCost": 16},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	delivery := data(t, rec)
	deliveryID := delivery["id"].(string)
	assert.Equal(t, "pending", delivery["status"])
	assert.Equal(t, "800", delivery["totalCost"])

	rec = makeRequest(router, http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/receive", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := data(t, rec)
	assert.Equal(t, "received", result["delivery"].(map[string]interface{})["status"])
	assert.Equal(t, []interface{}{id}, result["lowStockItemIds"])

	item := data(t, makeRequest(router, http.MethodGet, "/api/v1/items/"+id, nil))
	assert.Equal(t, "150", item["currentQty"])
	assert.Equal(t, "12", item["avgCost"])

	rec = makeRequest(router, http.MethodPost, "/api/v1/deliveries/"+deliveryID+"/receive", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_RECEIVED", errorCode(t, rec))

	rec = makeRequest(router, http.MethodPost, "/api/v1/deliveries/DLV-missing/receive", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeliveryHandlerCreateEmpty(t *testing.T) {
	router := newRouter(t)

	rec := makeRequest(router, http.MethodPost, "/api/v1/deliveries", map[string]interface{}{
		"supplierId": "SUP-1",
		"items":      []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_DELIVERY", errorCode(t, rec))
}

func TestDeliveryHandlerListByStatus(t *testing.T) {
	router := newRouter(t)
	id := createItem(t, router, "Diesel", 100, 10, 0)
	for i := 0; i < 2; i++ {
		rec := makeRequest(router, http.MethodPost, "/api/v1/deliveries", map[string]interface{}{
			"supplierId": "SUP-1",
			"items":      []map[string]interface{}{{"inventoryItemId": id, "qty": 10, "unitCost": 5}},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := makeRequest(router, http.MethodGet, "/api/v1/deliveries?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = makeRequest(router, http.MethodGet, "/api/v1/deliveries?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlers(t *testing.T) {
	router := newRouter(t)
	createItem(t, router, "Diesel", 100, 2, 200)

	rec := makeRequest(router, http.MethodGet, "/api/v1/reports/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data(t, rec)["count"])

	rec = makeRequest(router, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "200", data(t, rec)["totalStockValue"])

	rec = makeRequest(router, http.MethodGet, "/api/v1/reports/inventory-value", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "200", data(t, rec)["total"])
}

func TestRecordsHandlers(t *testing.T) {
	router := newRouter(t)

	rec := makeRequest(router, http.MethodPost, "/api/v1/suppliers", map[string]interface{}{
		"name":    "Emirates Bulk Fuels",
		"contact": "ops@ebf.example",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = makeRequest(router, http.MethodGet, "/api/v1/suppliers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Emirates Bulk Fuels")

	rec = makeRequest(router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
		"category": "Utilities",
		"amount":   450,
		"method":   "bank",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = makeRequest(router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
		"category": "Utilities",
		"amount":   10,
		"method":   "cheque",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = makeRequest(router, http.MethodGet, "/api/v1/expenses?category=utilities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "450", data(t, rec)["total"])

	rec = makeRequest(router, http.MethodPost, "/api/v1/daily-logs", map[string]interface{}{
		"date":        "01/05/2024",
		"openingCash": 500,
		"closingCash": 1200,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = makeRequest(router, http.MethodPost, "/api/v1/daily-logs", map[string]interface{}{
		"date":        "2024-05-01",
		"openingCash": 500,
		"closingCash": 1200,
		"incidents":   []map[string]interface{}{{"time": "14:10", "description": "pump 3 jammed"}},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = makeRequest(router, http.MethodGet, "/api/v1/daily-logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pump 3 jammed")
}

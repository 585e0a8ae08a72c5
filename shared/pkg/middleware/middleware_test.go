package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/errors"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Setup(router, DefaultConfig("inventory-service", testLogger()))
	return router
}

func TestRequestAndCorrelationIDs(t *testing.T) {
	router := newTestRouter()

	var ctxCorrelation any
	router.GET("/ping", func(c *gin.Context) {
		ctxCorrelation = c.Request.Context().Value(logging.CorrelationIDKey)
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		assert.Equal(t, w.Header().Get(HeaderCorrelationID), ctxCorrelation)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "req-42")
		req.Header.Set(HeaderCorrelationID, "corr-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "corr-42", ctxCorrelation)
	})
}

func TestErrorResponderEnvelope(t *testing.T) {
	router := newTestRouter()
	router.POST("/deliveries/:id/receive", func(c *gin.Context) {
		NewErrorResponder(c, testLogger()).RespondWithAppError(errors.ErrAlreadyReceived(c.Param("id")))
	})

	req := httptest.NewRequest(http.MethodPost, "/deliveries/DEL-1/receive", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeAlreadyReceived, body.Code)
	assert.Equal(t, "DEL-1", body.Details["deliveryId"])
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "/deliveries/DEL-1/receive", body.Path)
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	router := newTestRouter()
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeInternalError)
}

func TestNoRouteAndNoMethod(t *testing.T) {
	router := newTestRouter()
	router.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/items", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "METHOD_NOT_ALLOWED")
}

func TestContentTypeRejectsNonJSONBody(t *testing.T) {
	router := newTestRouter()
	router.POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString("name=diesel"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

type createExpenseRequest struct {
	Category string `json:"category" binding:"required"`
	Method   string `json:"method" binding:"required,payment_method"`
	SpentOn  string `json:"spentOn" binding:"required,iso_date"`
}

func TestBindAndValidate(t *testing.T) {
	router := newTestRouter()
	router.POST("/expenses", func(c *gin.Context) {
		var req createExpenseRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, testLogger()).RespondWithAppError(appErr)
			return
		}
		c.Status(http.StatusCreated)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"valid", `{"category":"Utilities","method":"bank","spentOn":"2024-05-01"}`, http.StatusCreated, ""},
		{"bad method", `{"category":"Utilities","method":"cheque","spentOn":"2024-05-01"}`, http.StatusBadRequest, "method"},
		{"bad date", `{"category":"Utilities","method":"cash","spentOn":"01/05/2024"}`, http.StatusBadRequest, "spentOn"},
		{"missing category", `{"method":"cash","spentOn":"2024-05-01"}`, http.StatusBadRequest, "category"},
		{"malformed", `{"category":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				var body APIErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, errors.CodeValidationError, body.Code)
				assert.Contains(t, body.Details, tt.wantField)
			}
		})
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New(metrics.DefaultConfig("inventory-service"))

	router := gin.New()
	router.Use(MetricsMiddleware(m))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", MetricsEndpoint(m))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/ITM-1", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/items/:id"`)
	assert.NotContains(t, w.Body.String(), "ITM-1")
}

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ready := false

	router := gin.New()
	router.GET("/ready", ReadinessCheck("inventory-service", func() error {
		if !ready {
			return assert.AnError
		}
		return nil
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready = true
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

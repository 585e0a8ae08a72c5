package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config, err := loadConfig("", envMap(nil))
	require.NoError(t, err)

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Output = io.Discard

	svc, err := newApp(context.Background(), config, metrics.New(metrics.DefaultConfig(serviceName)), logging.New(logConfig))
	require.NoError(t, err)
	t.Cleanup(svc.close)
	return svc
}

func serve(svc *app, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func TestAppOperationalEndpoints(t *testing.T) {
	svc := newTestApp(t)

	rec := serve(svc, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(svc, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")

	rec = serve(svc, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppServesStationAPI(t *testing.T) {
	svc := newTestApp(t)

	rec := serve(svc, http.MethodPost, "/api/v1/items",
		`{"kind":"shop","name":"Water 500ml","unit":"pcs","currentQty":150,"reorderLevel":50,"avgCost":0.5,"sellPrice":1.5,"category":"Beverage"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(svc, http.MethodGet, "/api/v1/items?kind=shop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Water 500ml")

	rec = serve(svc, http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ROUTE_NOT_FOUND")
}

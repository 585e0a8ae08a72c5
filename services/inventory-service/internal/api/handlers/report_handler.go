package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/middleware"
)

// ReportHandler serves the read-only station reports
type ReportHandler struct {
	service *application.ReportService
	logger  *logging.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *application.ReportService, logger *logging.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

// LowStock handles GET /api/v1/reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	result, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		respond(middleware.NewErrorResponder(c, h.logger.Logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Dashboard handles GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respond(middleware.NewErrorResponder(c, h.logger.Logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// InventoryValue handles GET /api/v1/reports/inventory-value
func (h *ReportHandler) InventoryValue(c *gin.Context) {
	result, err := h.service.InventoryValue(c.Request.Context())
	if err != nil {
		respond(middleware.NewErrorResponder(c, h.logger.Logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/api"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/middleware"
)

// RecordsHandler handles suppliers, expenses and daily logs
type RecordsHandler struct {
	service *application.RecordsService
	logger  *logging.Logger
}

// NewRecordsHandler creates a new RecordsHandler
func NewRecordsHandler(service *application.RecordsService, logger *logging.Logger) *RecordsHandler {
	return &RecordsHandler{service: service, logger: logger}
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *RecordsHandler) CreateSupplier(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateSupplierCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateSupplier(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *RecordsHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		respond(middleware.NewErrorResponder(c, h.logger.Logger), err)
		return
	}
	c.JSON(http.StatusOK, api.NewListResponse(suppliers))
}

// CreateExpense handles POST /api/v1/expenses
func (h *RecordsHandler) CreateExpense(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateExpenseCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateExpense(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// ListExpenses handles GET /api/v1/expenses?category=&limit=
func (h *RecordsHandler) ListExpenses(c *gin.Context) {
	req := api.ParseListRequest(c, 0)

	result, err := h.service.ListExpenses(c.Request.Context(), application.ListExpensesQuery{
		Category: c.Query("category"),
		Limit:    req.Limit,
	})
	if err != nil {
		respond(middleware.NewErrorResponder(c, h.logger.Logger), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// CreateDailyLog handles POST /api/v1/daily-logs
func (h *RecordsHandler) CreateDailyLog(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateDailyLogCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateDailyLog(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// ListDailyLogs handles GET /api/v1/daily-logs
func (h *RecordsHandler) ListDailyLogs(c *gin.Context) {
	req := api.ParseListRequest(c, application.DefaultDailyLogLimit)

	logs, err := h.service.ListDailyLogs(c.Request.Context(), req.Limit)
	if err != nil {
		respond(middleware.NewErrorResponder(c, h.logger.Logger), err)
		return
	}
	c.JSON(http.StatusOK, api.NewListResponse(logs))
}

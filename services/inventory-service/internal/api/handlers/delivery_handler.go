package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/api"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/middleware"
)

// DeliveryHandler handles HTTP requests for supplier deliveries
type DeliveryHandler struct {
	deliveries     *application.DeliveryService
	reconciliation *application.ReconciliationService
	logger         *logging.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveries *application.DeliveryService, reconciliation *application.ReconciliationService, logger *logging.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries:     deliveries,
		reconciliation: reconciliation,
		logger:         logger,
	}
}

// Create handles POST /api/v1/deliveries
func (h *DeliveryHandler) Create(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateDeliveryCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.deliveries.Create(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// List handles GET /api/v1/deliveries
func (h *DeliveryHandler) List(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)
	req := api.ParseListRequest(c, 0)

	deliveries, err := h.deliveries.List(c.Request.Context(), application.ListDeliveriesQuery{Status: req.Status})
	if err != nil {
		respond(responder, err)
		return
	}
	if req.Limit > 0 && len(deliveries) > req.Limit {
		deliveries = deliveries[:req.Limit]
	}

	c.JSON(http.StatusOK, api.NewListResponse(deliveries))
}

// Get handles GET /api/v1/deliveries/:id
func (h *DeliveryHandler) Get(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.deliveries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Receive handles POST /api/v1/deliveries/:id/receive. A partial receipt
// answers 409 with the per-line outcome in the error details.
func (h *DeliveryHandler) Receive(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)
	deliveryID := c.Param("id")

	middleware.AddSpanAttributes(c, map[string]string{"delivery.id": deliveryID})

	result, err := h.reconciliation.Receive(c.Request.Context(), deliveryID)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

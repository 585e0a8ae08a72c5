package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/api"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/errors"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/middleware"
)

// ItemHandler handles HTTP requests for inventory items
type ItemHandler struct {
	service *application.LedgerService
	logger  *logging.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(service *application.LedgerService, logger *logging.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger,
	}
}

// respond sends err as an AppError, or as an internal error when it is not one
func respond(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}

// Create handles POST /api/v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateItemCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// List handles GET /api/v1/items
func (h *ItemHandler) List(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)
	req := api.ParseListRequest(c, 0)

	items, err := h.service.ListItems(c.Request.Context(), application.ListItemsQuery{
		Kind:   req.Kind,
		Search: req.Search,
	})
	if err != nil {
		respond(responder, err)
		return
	}
	if req.Limit > 0 && len(items) > req.Limit {
		items = items[:req.Limit]
	}

	c.JSON(http.StatusOK, api.NewListResponse(items))
}

// Get handles GET /api/v1/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Adjust handles PUT /api/v1/items/:id
func (h *ItemHandler) Adjust(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.AdjustItemCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ItemID = c.Param("id")

	middleware.AddSpanAttributes(c, map[string]string{"item.id": cmd.ItemID})

	result, err := h.service.Adjust(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Delete handles DELETE /api/v1/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respond(responder, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ApplyReceipt handles POST /api/v1/items/:id/receipts
func (h *ItemHandler) ApplyReceipt(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.ApplyReceiptCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ItemID = c.Param("id")

	middleware.AddSpanAttributes(c, map[string]string{
		"item.id":      cmd.ItemID,
		"receipt.qty":  cmd.Qty.String(),
		"receipt.cost": cmd.UnitCost.String(),
	})

	result, err := h.service.ApplyReceipt(c.Request.Context(), cmd)
	if err != nil {
		respond(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the station API handlers
type Handlers struct {
	Items      *ItemHandler
	Deliveries *DeliveryHandler
	Reports    *ReportHandler
	Records    *RecordsHandler
}

// RegisterRoutes mounts the station API under /api/v1
func RegisterRoutes(router gin.IRouter, h Handlers) {
	v1 := router.Group("/api/v1")

	items := v1.Group("/items")
	{
		items.POST("", h.Items.Create)
		items.GET("", h.Items.List)
		items.GET("/:id", h.Items.Get)
		items.PUT("/:id", h.Items.Adjust)
		items.DELETE("/:id", h.Items.Delete)
		items.POST("/:id/receipts", h.Items.ApplyReceipt)
	}

	deliveries := v1.Group("/deliveries")
	{
		deliveries.POST("", h.Deliveries.Create)
		deliveries.GET("", h.Deliveries.List)
		deliveries.GET("/:id", h.Deliveries.Get)
		deliveries.POST("/:id/receive", h.Deliveries.Receive)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/low-stock", h.Reports.LowStock)
		reports.GET("/dashboard", h.Reports.Dashboard)
		reports.GET("/inventory-value", h.Reports.InventoryValue)
	}

	v1.POST("/suppliers", h.Records.CreateSupplier)
	v1.GET("/suppliers", h.Records.ListSuppliers)
	v1.POST("/expenses", h.Records.CreateExpense)
	v1.GET("/expenses", h.Records.ListExpenses)
	v1.POST("/daily-logs", h.Records.CreateDailyLog)
	v1.GET("/daily-logs", h.Records.ListDailyLogs)
}

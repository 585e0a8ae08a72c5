package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// InventoryItemDTO represents an inventory item in responses
type InventoryItemDTO struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentQty   decimal.Decimal `json:"currentQty"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	AvgCost      decimal.Decimal `json:"avgCost"`
	SellPrice    decimal.Decimal `json:"sellPrice"`
	StockValue   decimal.Decimal `json:"stockValue"`
	Category     string          `json:"category"`
	SupplierID   string          `json:"supplierId,omitempty"`
	IsLowStock   bool            `json:"isLowStock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Version      int64           `json:"version"`
}

// DeliveryLineDTO represents a delivery line in responses
type DeliveryLineDTO struct {
	InventoryItemID string          `json:"inventoryItemId"`
	Qty             decimal.Decimal `json:"qty"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// DeliveryDTO represents a delivery in responses
type DeliveryDTO struct {
	ID          string            `json:"id"`
	SupplierID  string            `json:"supplierId"`
	ReferenceNo string            `json:"referenceNo"`
	DeliveredAt time.Time         `json:"deliveredAt"`
	Status      string            `json:"status"`
	Items       []DeliveryLineDTO `json:"items"`
	TotalCost   decimal.Decimal   `json:"totalCost"`
	CreatedAt   time.Time         `json:"createdAt"`
	ReceivedAt  *time.Time        `json:"receivedAt,omitempty"`
}

// ReceiptResultDTO is the outcome of receiving a delivery
type ReceiptResultDTO struct {
	Delivery        DeliveryDTO          `json:"delivery"`
	Lines           []domain.LineOutcome `json:"lines"`
	Items           []InventoryItemDTO   `json:"items"`
	LowStockItemIDs []string             `json:"lowStockItemIds"`
}

// LowStockReportDTO lists items at or below their reorder level
type LowStockReportDTO struct {
	Count int                `json:"count"`
	Items []InventoryItemDTO `json:"items"`
}

// DashboardDTO is the station overview
type DashboardDTO struct {
	LowStockCount      int                `json:"lowStockCount"`
	LowStockItems      []InventoryItemDTO `json:"lowStockItems"`
	TotalStockValue    decimal.Decimal    `json:"totalStockValue"`
	PendingDeliveries  int                `json:"pendingDeliveries"`
	TodayExpensesTotal decimal.Decimal    `json:"todayExpensesTotal"`
	GeneratedAt        time.Time          `json:"generatedAt"`
}

// CategoryValueDTO is the stock value held in one category
type CategoryValueDTO struct {
	Category string          `json:"category"`
	Items    int             `json:"items"`
	Value    decimal.Decimal `json:"value"`
}

// InventoryValueDTO is stock value grouped by category
type InventoryValueDTO struct {
	Total      decimal.Decimal    `json:"total"`
	ByCategory []CategoryValueDTO `json:"byCategory"`
}

// SupplierDTO represents a supplier in responses
type SupplierDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExpenseDTO represents an expense in responses
type ExpenseDTO struct {
	ID       string          `json:"id"`
	SpentAt  time.Time       `json:"spentAt"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method"`
	Notes    string          `json:"notes,omitempty"`
}

// ExpenseListDTO is an expense listing with its totals
type ExpenseListDTO struct {
	Expenses   []ExpenseDTO               `json:"expenses"`
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
}

// IncidentDTO represents a shift incident
type IncidentDTO struct {
	Time        string `json:"time,omitempty"`
	Description string `json:"description"`
}

// DailyLogDTO represents a daily log in responses
type DailyLogDTO struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	OpeningCash decimal.Decimal `json:"openingCash"`
	ClosingCash decimal.Decimal `json:"closingCash"`
	Notes       string          `json:"notes,omitempty"`
	Incidents   []IncidentDTO   `json:"incidents"`
	CreatedAt   time.Time       `json:"createdAt"`
}

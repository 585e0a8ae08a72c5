package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemCommand represents the command to create an inventory item
type CreateItemCommand struct {
	Kind         string          `json:"kind" binding:"required,item_kind"`
	Name         string          `json:"name" binding:"required,max=120"`
	Unit         string          `json:"unit" binding:"required,stock_unit"`
	CurrentQty   decimal.Decimal `json:"currentQty"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	AvgCost      decimal.Decimal `json:"avgCost"`
	SellPrice    decimal.Decimal `json:"sellPrice"`
	Category     string          `json:"category" binding:"max=60"`
	SupplierID   string          `json:"supplierId"`
}

// ApplyReceiptCommand receives stock directly against one item
type ApplyReceiptCommand struct {
	ItemID   string          `json:"-"`
	Qty      decimal.Decimal `json:"qty"`
	UnitCost decimal.Decimal `json:"unitCost"`
}

// AdjustItemCommand overrides an item's stock figures. Omitted fields are
// left unchanged.
type AdjustItemCommand struct {
	ItemID       string           `json:"-"`
	CurrentQty   *decimal.Decimal `json:"currentQty"`
	AvgCost      *decimal.Decimal `json:"avgCost"`
	SellPrice    *decimal.Decimal `json:"sellPrice"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
	Category     *string          `json:"category"`
	Reason       string           `json:"reason" binding:"max=200"`
}

// ListItemsQuery filters the item listing
type ListItemsQuery struct {
	Kind   string
	Search string
}

// DeliveryLineCommand is one line of a new delivery
type DeliveryLineCommand struct {
	InventoryItemID string          `json:"inventoryItemId" binding:"required"`
	Qty             decimal.Decimal `json:"qty"`
	UnitCost        decimal.Decimal `json:"unitCost"`
}

// CreateDeliveryCommand records a supplier delivery as pending
type CreateDeliveryCommand struct {
	SupplierID  string                `json:"supplierId" binding:"required"`
	ReferenceNo string                `json:"referenceNo" binding:"max=60"`
	DeliveredAt time.Time             `json:"deliveredAt"`
	Items       []DeliveryLineCommand `json:"items" binding:"dive"`
}

// ListDeliveriesQuery filters the delivery listing
type ListDeliveriesQuery struct {
	Status string
}

// CreateSupplierCommand represents the command to create a supplier
type CreateSupplierCommand struct {
	Name    string `json:"name" binding:"required,max=120"`
	Contact string `json:"contact" binding:"max=120"`
}

// CreateExpenseCommand represents the command to record an expense
type CreateExpenseCommand struct {
	SpentAt  time.Time       `json:"spentAt"`
	Category string          `json:"category" binding:"required,max=60"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method" binding:"required,payment_method"`
	Notes    string          `json:"notes" binding:"max=500"`
}

// ListExpensesQuery filters the expense listing
type ListExpensesQuery struct {
	Category string
	Limit    int
}

// IncidentCommand is one shift incident
type IncidentCommand struct {
	Time        string `json:"time" binding:"omitempty,clock_time"`
	Description string `json:"description" binding:"required,max=500"`
}

// CreateDailyLogCommand represents the command to record a daily log
type CreateDailyLogCommand struct {
	Date        string            `json:"date" binding:"required,iso_date"`
	OpeningCash decimal.Decimal   `json:"openingCash"`
	ClosingCash decimal.Decimal   `json:"closingCash"`
	Notes       string            `json:"notes" binding:"max=1000"`
	Incidents   []IncidentCommand `json:"incidents" binding:"dive"`
}

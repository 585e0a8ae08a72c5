package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/cloudevents"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// ItemCreatedEvent is published when an item is added to the catalogue
type ItemCreatedEvent struct {
	ItemID    string    `json:"itemId"`
	Kind      ItemKind  `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *ItemCreatedEvent) EventType() string     { return cloudevents.ItemCreated }
func (e *ItemCreatedEvent) AggregateID() string   { return e.ItemID }
func (e *ItemCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// ItemDeletedEvent is published when an item is removed
type ItemDeletedEvent struct {
	ItemID    string    `json:"itemId"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (e *ItemDeletedEvent) EventType() string     { return cloudevents.ItemDeleted }
func (e *ItemDeletedEvent) AggregateID() string   { return e.ItemID }
func (e *ItemDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// StockReceivedEvent is published when a receipt is written to an item
type StockReceivedEvent struct {
	ItemID        string          `json:"itemId"`
	DeliveryID    string          `json:"deliveryId,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	QtyBefore     decimal.Decimal `json:"qtyBefore"`
	QtyAfter      decimal.Decimal `json:"qtyAfter"`
	AvgCostBefore decimal.Decimal `json:"avgCostBefore"`
	AvgCostAfter  decimal.Decimal `json:"avgCostAfter"`
	ReceivedAt    time.Time       `json:"receivedAt"`
}

func (e *StockReceivedEvent) EventType() string     { return cloudevents.StockReceived }
func (e *StockReceivedEvent) AggregateID() string   { return e.ItemID }
func (e *StockReceivedEvent) OccurredAt() time.Time { return e.ReceivedAt }

// StockAdjustedEvent is published when an operator overrides an item
type StockAdjustedEvent struct {
	ItemID     string          `json:"itemId"`
	QtyBefore  decimal.Decimal `json:"qtyBefore"`
	QtyAfter   decimal.Decimal `json:"qtyAfter"`
	AvgCost    decimal.Decimal `json:"avgCost"`
	Reason     string          `json:"reason,omitempty"`
	AdjustedAt time.Time       `json:"adjustedAt"`
}

func (e *StockAdjustedEvent) EventType() string     { return cloudevents.StockAdjusted }
func (e *StockAdjustedEvent) AggregateID() string   { return e.ItemID }
func (e *StockAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }

// LowStockDetectedEvent is published when a write leaves an item at or
// below its reorder level
type LowStockDetectedEvent struct {
	ItemID       string          `json:"itemId"`
	Name         string          `json:"name"`
	CurrentQty   decimal.Decimal `json:"currentQty"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	DetectedAt   time.Time       `json:"detectedAt"`
}

func (e *LowStockDetectedEvent) EventType() string     { return cloudevents.LowStock }
func (e *LowStockDetectedEvent) AggregateID() string   { return e.ItemID }
func (e *LowStockDetectedEvent) OccurredAt() time.Time { return e.DetectedAt }

// DeliveryCreatedEvent is published when a delivery is recorded
type DeliveryCreatedEvent struct {
	DeliveryID string          `json:"deliveryId"`
	SupplierID string          `json:"supplierId"`
	Lines      int             `json:"lines"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (e *DeliveryCreatedEvent) EventType() string     { return cloudevents.DeliveryCreated }
func (e *DeliveryCreatedEvent) AggregateID() string   { return e.DeliveryID }
func (e *DeliveryCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// DeliveryReceivedEvent is published when every line was applied and the
// delivery is marked received
type DeliveryReceivedEvent struct {
	DeliveryID string          `json:"deliveryId"`
	SupplierID string          `json:"supplierId"`
	Lines      int             `json:"lines"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

func (e *DeliveryReceivedEvent) EventType() string     { return cloudevents.DeliveryReceived }
func (e *DeliveryReceivedEvent) AggregateID() string   { return e.DeliveryID }
func (e *DeliveryReceivedEvent) OccurredAt() time.Time { return e.ReceivedAt }

// DeliveryPartiallyReceivedEvent is published when a receipt stopped part
// way, or applied every line but could not be finalized
type DeliveryPartiallyReceivedEvent struct {
	DeliveryID string        `json:"deliveryId"`
	Lines      []LineOutcome `json:"lines"`
	Reason     string        `json:"reason"`
	FailedAt   time.Time     `json:"failedAt"`
}

func (e *DeliveryPartiallyReceivedEvent) EventType() string {
	return cloudevents.DeliveryPartiallyReceived
}
func (e *DeliveryPartiallyReceivedEvent) AggregateID() string   { return e.DeliveryID }
func (e *DeliveryPartiallyReceivedEvent) OccurredAt() time.Time { return e.FailedAt }

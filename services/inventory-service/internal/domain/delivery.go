package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus represents the settlement state of a delivery
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "pending"
	DeliveryReceived DeliveryStatus = "received"
)

// IsValid checks if the status is valid
func (s DeliveryStatus) IsValid() bool {
	return s == DeliveryPending || s == DeliveryReceived
}

// CanTransitionTo checks if a delivery may move from s to target.
// pending -> received is the only transition.
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	return s == DeliveryPending && target == DeliveryReceived
}

// DeliveryLineItem is one product line on a supplier delivery
type DeliveryLineItem struct {
	InventoryItemID string
	Qty             decimal.Decimal
	UnitCost        decimal.Decimal
	LineTotal       decimal.Decimal
}

// Delivery is a supplier delivery awaiting or past reconciliation
type Delivery struct {
	ID          string
	SupplierID  string
	ReferenceNo string
	DeliveredAt time.Time
	Status      DeliveryStatus
	Items       []DeliveryLineItem
	TotalCost   decimal.Decimal
	CreatedAt   time.Time
	ReceivedAt  *time.Time

	domainEvents []DomainEvent
}

// NewLineItem is an unpriced delivery line as entered by the operator
type NewLineItem struct {
	InventoryItemID string
	Qty             decimal.Decimal
	UnitCost        decimal.Decimal
}

// NewDeliveryParams holds the fields of a new delivery
type NewDeliveryParams struct {
	ID          string
	SupplierID  string
	ReferenceNo string
	DeliveredAt time.Time
	Items       []NewLineItem
}

// NewDelivery validates params and creates a pending delivery with line
// totals and the delivery total computed. Quantities and costs are rounded
// to Precision before validation and line totals use the rounded values.
func NewDelivery(p NewDeliveryParams, now time.Time) (*Delivery, error) {
	if len(p.Items) == 0 {
		return nil, ErrEmptyDelivery
	}

	lines := make([]DeliveryLineItem, 0, len(p.Items))
	total := decimal.Zero
	for idx, in := range p.Items {
		qty, unitCost := Round(in.Qty), Round(in.UnitCost)
		if strings.TrimSpace(in.InventoryItemID) == "" {
			return nil, fmt.Errorf("%w: line %d has no inventory item", ErrInvalidQuantity, idx)
		}
		if !qty.IsPositive() {
			return nil, fmt.Errorf("%w: line %d quantity must be positive, got %s", ErrInvalidQuantity, idx, in.Qty)
		}
		if unitCost.IsNegative() {
			return nil, fmt.Errorf("%w: line %d unit cost must not be negative, got %s", ErrInvalidQuantity, idx, in.UnitCost)
		}

		line := DeliveryLineItem{
			InventoryItemID: in.InventoryItemID,
			Qty:             qty,
			UnitCost:        unitCost,
			LineTotal:       LineTotal(qty, unitCost),
		}
		total = total.Add(line.LineTotal)
		lines = append(lines, line)
	}

	deliveredAt := p.DeliveredAt
	if deliveredAt.IsZero() {
		deliveredAt = now
	}

	d := &Delivery{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		ReferenceNo: strings.TrimSpace(p.ReferenceNo),
		DeliveredAt: deliveredAt,
		Status:      DeliveryPending,
		Items:       lines,
		TotalCost:   Round(total),
		CreatedAt:   now,
	}
	d.addDomainEvent(&DeliveryCreatedEvent{
		DeliveryID: d.ID,
		SupplierID: d.SupplierID,
		Lines:      len(lines),
		TotalCost:  d.TotalCost,
		CreatedAt:  now,
	})
	return d, nil
}

// IsPending reports whether the delivery still awaits receipt
func (d *Delivery) IsPending() bool {
	return d.Status == DeliveryPending
}

// MarkReceived moves the delivery to received
func (d *Delivery) MarkReceived(now time.Time) error {
	if !d.Status.CanTransitionTo(DeliveryReceived) {
		return fmt.Errorf("%w: delivery %s is %s", ErrInvalidTransition, d.ID, d.Status)
	}
	d.Status = DeliveryReceived
	d.ReceivedAt = &now
	return nil
}

func (d *Delivery) addDomainEvent(event DomainEvent) {
	d.domainEvents = append(d.domainEvents, event)
}

// DomainEvents returns events recorded since the delivery was loaded
func (d *Delivery) DomainEvents() []DomainEvent {
	return d.domainEvents
}

// ClearDomainEvents drops recorded events
func (d *Delivery) ClearDomainEvents() {
	d.domainEvents = nil
}

// DeliveryFilter narrows a delivery listing
type DeliveryFilter struct {
	Status DeliveryStatus
}

// Matches reports whether d passes the filter
func (f DeliveryFilter) Matches(d *Delivery) bool {
	return f.Status == "" || d.Status == f.Status
}

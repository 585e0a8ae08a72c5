package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind separates bulk fuel from shop stock
type ItemKind string

const (
	KindFuel ItemKind = "fuel"
	KindShop ItemKind = "shop"
)

// IsValid checks if the item kind is valid
func (k ItemKind) IsValid() bool {
	return k == KindFuel || k == KindShop
}

// Unit is the unit an item is counted in
type Unit string

const (
	UnitLitres Unit = "L"
	UnitPieces Unit = "pcs"
)

// IsValid checks if the unit is valid
func (u Unit) IsValid() bool {
	return u == UnitLitres || u == UnitPieces
}

// InventoryItem is a stocked product with its running weighted-average cost.
// Version increases by one on every persisted write and is used for
// compare-and-set updates.
type InventoryItem struct {
	ID           string
	Kind         ItemKind
	Name         string
	Unit         Unit
	CurrentQty   decimal.Decimal
	ReorderLevel decimal.Decimal
	AvgCost      decimal.Decimal
	SellPrice    decimal.Decimal
	Category     string
	SupplierID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64

	domainEvents []DomainEvent
}

// NewItemParams holds the fields of a new inventory item
type NewItemParams struct {
	ID           string
	Kind         ItemKind
	Name         string
	Unit         Unit
	CurrentQty   decimal.Decimal
	ReorderLevel decimal.Decimal
	AvgCost      decimal.Decimal
	SellPrice    decimal.Decimal
	Category     string
	SupplierID   string
}

// NewInventoryItem validates params and creates an item at version 1
func NewInventoryItem(p NewItemParams, now time.Time) (*InventoryItem, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if !p.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidItem, p.Kind)
	}
	if !p.Unit.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidItem, p.Unit)
	}
	if err := requireNonNegative(map[string]decimal.Decimal{
		"currentQty":   p.CurrentQty,
		"reorderLevel": p.ReorderLevel,
		"avgCost":      p.AvgCost,
		"sellPrice":    p.SellPrice,
	}); err != nil {
		return nil, err
	}

	item := &InventoryItem{
		ID:           p.ID,
		Kind:         p.Kind,
		Name:         strings.TrimSpace(p.Name),
		Unit:         p.Unit,
		CurrentQty:   Round(p.CurrentQty),
		ReorderLevel: Round(p.ReorderLevel),
		AvgCost:      Round(p.AvgCost),
		SellPrice:    Round(p.SellPrice),
		Category:     strings.TrimSpace(p.Category),
		SupplierID:   p.SupplierID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
	item.addDomainEvent(&ItemCreatedEvent{
		ItemID:    item.ID,
		Kind:      item.Kind,
		Name:      item.Name,
		CreatedAt: now,
	})
	return item, nil
}

// ApplyReceipt adds qty units bought at unitCost and recomputes the
// weighted-average cost. Inputs are rounded to Precision before they are
// checked, so a quantity that rounds to zero is rejected. The item is left
// untouched on error.
func (i *InventoryItem) ApplyReceipt(qty, unitCost decimal.Decimal, now time.Time) error {
	qty, unitCost = Round(qty), Round(unitCost)
	if !qty.IsPositive() {
		return fmt.Errorf("%w: receipt quantity must be positive, got %s", ErrInvalidQuantity, qty)
	}
	if unitCost.IsNegative() {
		return fmt.Errorf("%w: unit cost must not be negative, got %s", ErrInvalidQuantity, unitCost)
	}

	qtyBefore, costBefore := i.CurrentQty, i.AvgCost
	i.CurrentQty, i.AvgCost = WeightedAverage(qtyBefore, costBefore, qty, unitCost)
	i.UpdatedAt = now

	i.addDomainEvent(&StockReceivedEvent{
		ItemID:        i.ID,
		Quantity:      qty,
		UnitCost:      unitCost,
		QtyBefore:     qtyBefore,
		QtyAfter:      i.CurrentQty,
		AvgCostBefore: costBefore,
		AvgCostAfter:  i.AvgCost,
		ReceivedAt:    now,
	})
	i.raiseLowStock(now)
	return nil
}

// Adjustment is an operator override of an item's stock figures. Nil
// fields are left unchanged.
type Adjustment struct {
	Qty          *decimal.Decimal
	AvgCost      *decimal.Decimal
	SellPrice    *decimal.Decimal
	ReorderLevel *decimal.Decimal
	Category     *string
	Reason       string
}

// Adjust applies an operator override. No weighted-average recomputation
// takes place.
func (i *InventoryItem) Adjust(a Adjustment, now time.Time) error {
	values := map[string]decimal.Decimal{}
	if a.Qty != nil {
		values["qty"] = *a.Qty
	}
	if a.AvgCost != nil {
		values["avgCost"] = *a.AvgCost
	}
	if a.SellPrice != nil {
		values["sellPrice"] = *a.SellPrice
	}
	if a.ReorderLevel != nil {
		values["reorderLevel"] = *a.ReorderLevel
	}
	if err := requireNonNegative(values); err != nil {
		return err
	}

	qtyBefore := i.CurrentQty
	if a.Qty != nil {
		i.CurrentQty = Round(*a.Qty)
	}
	if a.AvgCost != nil {
		i.AvgCost = Round(*a.AvgCost)
	}
	if a.SellPrice != nil {
		i.SellPrice = Round(*a.SellPrice)
	}
	if a.ReorderLevel != nil {
		i.ReorderLevel = Round(*a.ReorderLevel)
	}
	if a.Category != nil {
		i.Category = strings.TrimSpace(*a.Category)
	}
	i.UpdatedAt = now

	i.addDomainEvent(&StockAdjustedEvent{
		ItemID:     i.ID,
		QtyBefore:  qtyBefore,
		QtyAfter:   i.CurrentQty,
		AvgCost:    i.AvgCost,
		Reason:     a.Reason,
		AdjustedAt: now,
	})
	i.raiseLowStock(now)
	return nil
}

// IsLowStock reports whether the item is at or below its reorder level
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentQty.LessThanOrEqual(i.ReorderLevel)
}

// StockValue returns currentQty * avgCost
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.CurrentQty.Mul(i.AvgCost)
}

func (i *InventoryItem) raiseLowStock(now time.Time) {
	if !i.IsLowStock() {
		return
	}
	i.addDomainEvent(&LowStockDetectedEvent{
		ItemID:       i.ID,
		Name:         i.Name,
		CurrentQty:   i.CurrentQty,
		ReorderLevel: i.ReorderLevel,
		DetectedAt:   now,
	})
}

// Clone returns a copy of the item without pending domain events
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	c.domainEvents = nil
	return &c
}

func (i *InventoryItem) addDomainEvent(event DomainEvent) {
	i.domainEvents = append(i.domainEvents, event)
}

// DomainEvents returns events recorded since the item was loaded
func (i *InventoryItem) DomainEvents() []DomainEvent {
	return i.domainEvents
}

// ClearDomainEvents drops recorded events
func (i *InventoryItem) ClearDomainEvents() {
	i.domainEvents = nil
}

// ItemFilter narrows an item listing
type ItemFilter struct {
	Kind   ItemKind
	Search string
}

// Matches reports whether item passes the filter. Search is a
// case-insensitive substring match on name or category.
func (f ItemFilter) Matches(item *InventoryItem) bool {
	if f.Kind != "" && item.Kind != f.Kind {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(item.Name), term) ||
		strings.Contains(strings.ToLower(item.Category), term)
}

func requireNonNegative(values map[string]decimal.Decimal) error {
	for name, v := range values {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidQuantity, name, v)
		}
	}
	return nil
}

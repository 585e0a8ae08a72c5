package firestore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// Collection names
const (
	ItemsCollection      = "items"
	DeliveriesCollection = "deliveries"
	SuppliersCollection  = "suppliers"
	ExpensesCollection   = "expenses"
	DailyLogsCollection  = "dailyLogs"
)

// Decimals are stored as strings; Firestore numbers are float64.

type itemDocument struct {
	Kind         string    `firestore:"kind"`
	Name         string    `firestore:"name"`
	Unit         string    `firestore:"unit"`
	CurrentQty   string    `firestore:"currentQty"`
	ReorderLevel string    `firestore:"reorderLevel"`
	AvgCost      string    `firestore:"avgCost"`
	SellPrice    string    `firestore:"sellPrice"`
	Category     string    `firestore:"category"`
	SupplierID   string    `firestore:"supplierId,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
	Version      int64     `firestore:"version"`
}

type lineDocument struct {
	InventoryItemID string `firestore:"inventoryItemId"`
	Qty             string `firestore:"qty"`
	UnitCost        string `firestore:"unitCost"`
	LineTotal       string `firestore:"lineTotal"`
}

type deliveryDocument struct {
	SupplierID  string         `firestore:"supplierId"`
	ReferenceNo string         `firestore:"referenceNo"`
	DeliveredAt time.Time      `firestore:"deliveredAt"`
	Status      string         `firestore:"status"`
	Items       []lineDocument `firestore:"items"`
	TotalCost   string         `firestore:"totalCost"`
	CreatedAt   time.Time      `firestore:"createdAt"`
	ReceivedAt  *time.Time     `firestore:"receivedAt"`
}

type supplierDocument struct {
	Name      string    `firestore:"name"`
	Contact   string    `firestore:"contact"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type expenseDocument struct {
	SpentAt  time.Time `firestore:"spentAt"`
	Category string    `firestore:"category"`
	Amount   string    `firestore:"amount"`
	Method   string    `firestore:"method"`
	Notes    string    `firestore:"notes,omitempty"`
}

type incidentDocument struct {
	Time        string `firestore:"time,omitempty"`
	Description string `firestore:"description"`
}

type dailyLogDocument struct {
	Date        string             `firestore:"date"`
	OpeningCash string             `firestore:"openingCash"`
	ClosingCash string             `firestore:"closingCash"`
	Notes       string             `firestore:"notes,omitempty"`
	Incidents   []incidentDocument `firestore:"incidents"`
	CreatedAt   time.Time          `firestore:"createdAt"`
}

// parser reads several decimal strings, keeping the first error
type parser struct {
	err error
}

func (p *parser) parse(field, s string) decimal.Decimal {
	if p.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = fmt.Errorf("field %s: %w", field, err)
		return decimal.Zero
	}
	return d
}

func toItemDocument(item *domain.InventoryItem) *itemDocument {
	return &itemDocument{
		Kind:         string(item.Kind),
		Name:         item.Name,
		Unit:         string(item.Unit),
		CurrentQty:   item.CurrentQty.String(),
		ReorderLevel: item.ReorderLevel.String(),
		AvgCost:      item.AvgCost.String(),
		SellPrice:    item.SellPrice.String(),
		Category:     item.Category,
		SupplierID:   item.SupplierID,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		Version:      item.Version,
	}
}

func (d *itemDocument) toDomain(id string) (*domain.InventoryItem, error) {
	var p parser
	item := &domain.InventoryItem{
		ID:           id,
		Kind:         domain.ItemKind(d.Kind),
		Name:         d.Name,
		Unit:         domain.Unit(d.Unit),
		CurrentQty:   p.parse("currentQty", d.CurrentQty),
		ReorderLevel: p.parse("reorderLevel", d.ReorderLevel),
		AvgCost:      p.parse("avgCost", d.AvgCost),
		SellPrice:    p.parse("sellPrice", d.SellPrice),
		Category:     d.Category,
		SupplierID:   d.SupplierID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		Version:      d.Version,
	}
	if p.err != nil {
		return nil, fmt.Errorf("item %s: %w", id, p.err)
	}
	return item, nil
}

func toDeliveryDocument(d *domain.Delivery) *deliveryDocument {
	lines := make([]lineDocument, len(d.Items))
	for i, l := range d.Items {
		lines[i] = lineDocument{
			InventoryItemID: l.InventoryItemID,
			Qty:             l.Qty.String(),
			UnitCost:        l.UnitCost.String(),
			LineTotal:       l.LineTotal.String(),
		}
	}
	return &deliveryDocument{
		SupplierID:  d.SupplierID,
		ReferenceNo: d.ReferenceNo,
		DeliveredAt: d.DeliveredAt,
		Status:      string(d.Status),
		Items:       lines,
		TotalCost:   d.TotalCost.String(),
		CreatedAt:   d.CreatedAt,
		ReceivedAt:  d.ReceivedAt,
	}
}

func (doc *deliveryDocument) toDomain(id string) (*domain.Delivery, error) {
	var p parser
	lines := make([]domain.DeliveryLineItem, len(doc.Items))
	for i, l := range doc.Items {
		lines[i] = domain.DeliveryLineItem{
			InventoryItemID: l.InventoryItemID,
			Qty:             p.parse("qty", l.Qty),
			UnitCost:        p.parse("unitCost", l.UnitCost),
			LineTotal:       p.parse("lineTotal", l.LineTotal),
		}
	}
	d := &domain.Delivery{
		ID:          id,
		SupplierID:  doc.SupplierID,
		ReferenceNo: doc.ReferenceNo,
		DeliveredAt: doc.DeliveredAt.UTC(),
		Status:      domain.DeliveryStatus(doc.Status),
		Items:       lines,
		TotalCost:   p.parse("totalCost", doc.TotalCost),
		CreatedAt:   doc.CreatedAt.UTC(),
	}
	if doc.ReceivedAt != nil {
		at := doc.ReceivedAt.UTC()
		d.ReceivedAt = &at
	}
	if p.err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, p.err)
	}
	return d, nil
}

func toExpenseDocument(e *domain.Expense) *expenseDocument {
	return &expenseDocument{
		SpentAt:  e.SpentAt,
		Category: e.Category,
		Amount:   e.Amount.String(),
		Method:   string(e.Method),
		Notes:    e.Notes,
	}
}

func (doc *expenseDocument) toDomain(id string) (*domain.Expense, error) {
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", id, err)
	}
	return &domain.Expense{
		ID:       id,
		SpentAt:  doc.SpentAt.UTC(),
		Category: doc.Category,
		Amount:   amount,
		Method:   domain.PaymentMethod(doc.Method),
		Notes:    doc.Notes,
	}, nil
}

func toDailyLogDocument(l *domain.DailyLog) *dailyLogDocument {
	incidents := make([]incidentDocument, len(l.Incidents))
	for i, inc := range l.Incidents {
		incidents[i] = incidentDocument{Time: inc.Time, Description: inc.Description}
	}
	return &dailyLogDocument{
		Date:        l.Date,
		OpeningCash: l.OpeningCash.String(),
		ClosingCash: l.ClosingCash.String(),
		Notes:       l.Notes,
		Incidents:   incidents,
		CreatedAt:   l.CreatedAt,
	}
}

func (doc *dailyLogDocument) toDomain(id string) (*domain.DailyLog, error) {
	var p parser
	incidents := make([]domain.Incident, len(doc.Incidents))
	for i, inc := range doc.Incidents {
		incidents[i] = domain.Incident{Time: inc.Time, Description: inc.Description}
	}
	l := &domain.DailyLog{
		ID:          id,
		Date:        doc.Date,
		OpeningCash: p.parse("openingCash", doc.OpeningCash),
		ClosingCash: p.parse("closingCash", doc.ClosingCash),
		Notes:       doc.Notes,
		Incidents:   incidents,
		CreatedAt:   doc.CreatedAt.UTC(),
	}
	if p.err != nil {
		return nil, fmt.Errorf("daily log %s: %w", id, p.err)
	}
	return l, nil
}

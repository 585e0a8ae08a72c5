package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	sharedmongo "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
)

// Collection names
const (
	ItemsCollection      = "items"
	DeliveriesCollection = "deliveries"
	SuppliersCollection  = "suppliers"
	ExpensesCollection   = "expenses"
	DailyLogsCollection  = "dailyLogs"
)

type itemDocument struct {
	ID           string               `bson:"_id"`
	Kind         string               `bson:"kind"`
	Name         string               `bson:"name"`
	Unit         string               `bson:"unit"`
	CurrentQty   primitive.Decimal128 `bson:"currentQty"`
	ReorderLevel primitive.Decimal128 `bson:"reorderLevel"`
	AvgCost      primitive.Decimal128 `bson:"avgCost"`
	SellPrice    primitive.Decimal128 `bson:"sellPrice"`
	Category     string               `bson:"category"`
	SupplierID   string               `bson:"supplierId,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
	Version      int64                `bson:"version"`
}

type lineDocument struct {
	InventoryItemID string               `bson:"inventoryItemId"`
	Qty             primitive.Decimal128 `bson:"qty"`
	UnitCost        primitive.Decimal128 `bson:"unitCost"`
	LineTotal       primitive.Decimal128 `bson:"lineTotal"`
}

type deliveryDocument struct {
	ID          string               `bson:"_id"`
	SupplierID  string               `bson:"supplierId"`
	ReferenceNo string               `bson:"referenceNo"`
	DeliveredAt time.Time            `bson:"deliveredAt"`
	Status      string               `bson:"status"`
	Items       []lineDocument       `bson:"items"`
	TotalCost   primitive.Decimal128 `bson:"totalCost"`
	CreatedAt   time.Time            `bson:"createdAt"`
	ReceivedAt  *time.Time           `bson:"receivedAt,omitempty"`
}

type supplierDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Contact   string    `bson:"contact"`
	CreatedAt time.Time `bson:"createdAt"`
}

type expenseDocument struct {
	ID       string               `bson:"_id"`
	SpentAt  time.Time            `bson:"spentAt"`
	Category string               `bson:"category"`
	Amount   primitive.Decimal128 `bson:"amount"`
	Method   string               `bson:"method"`
	Notes    string               `bson:"notes,omitempty"`
}

type incidentDocument struct {
	Time        string `bson:"time,omitempty"`
	Description string `bson:"description"`
}

type dailyLogDocument struct {
	ID          string               `bson:"_id"`
	Date        string               `bson:"date"`
	OpeningCash primitive.Decimal128 `bson:"openingCash"`
	ClosingCash primitive.Decimal128 `bson:"closingCash"`
	Notes       string               `bson:"notes,omitempty"`
	Incidents   []incidentDocument   `bson:"incidents"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

// decimals converts several decimals at once, stopping at the first error
type decimals struct {
	err error
}

func (c *decimals) to(d decimal.Decimal) primitive.Decimal128 {
	if c.err != nil {
		return primitive.Decimal128{}
	}
	v, err := sharedmongo.Decimal(d)
	if err != nil {
		c.err = err
	}
	return v
}

func (c *decimals) from(v primitive.Decimal128) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	d, err := sharedmongo.FromDecimal(v)
	if err != nil {
		c.err = err
	}
	return d
}

func toItemDocument(item *domain.InventoryItem) (*itemDocument, error) {
	var c decimals
	doc := &itemDocument{
		ID:           item.ID,
		Kind:         string(item.Kind),
		Name:         item.Name,
		Unit:         string(item.Unit),
		CurrentQty:   c.to(item.CurrentQty),
		ReorderLevel: c.to(item.ReorderLevel),
		AvgCost:      c.to(item.AvgCost),
		SellPrice:    c.to(item.SellPrice),
		Category:     item.Category,
		SupplierID:   item.SupplierID,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		Version:      item.Version,
	}
	if c.err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, c.err)
	}
	return doc, nil
}

func (d *itemDocument) toDomain() (*domain.InventoryItem, error) {
	var c decimals
	item := &domain.InventoryItem{
		ID:           d.ID,
		Kind:         domain.ItemKind(d.Kind),
		Name:         d.Name,
		Unit:         domain.Unit(d.Unit),
		CurrentQty:   c.from(d.CurrentQty),
		ReorderLevel: c.from(d.ReorderLevel),
		AvgCost:      c.from(d.AvgCost),
		SellPrice:    c.from(d.SellPrice),
		Category:     d.Category,
		SupplierID:   d.SupplierID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		Version:      d.Version,
	}
	if c.err != nil {
		return nil, fmt.Errorf("item %s: %w", d.ID, c.err)
	}
	return item, nil
}

func toDeliveryDocument(delivery *domain.Delivery) (*deliveryDocument, error) {
	var c decimals
	lines := make([]lineDocument, 0, len(delivery.Items))
	for _, line := range delivery.Items {
		lines = append(lines, lineDocument{
			InventoryItemID: line.InventoryItemID,
			Qty:             c.to(line.Qty),
			UnitCost:        c.to(line.UnitCost),
			LineTotal:       c.to(line.LineTotal),
		})
	}
	doc := &deliveryDocument{
		ID:          delivery.ID,
		SupplierID:  delivery.SupplierID,
		ReferenceNo: delivery.ReferenceNo,
		DeliveredAt: delivery.DeliveredAt,
		Status:      string(delivery.Status),
		Items:       lines,
		TotalCost:   c.to(delivery.TotalCost),
		CreatedAt:   delivery.CreatedAt,
		ReceivedAt:  delivery.ReceivedAt,
	}
	if c.err != nil {
		return nil, fmt.Errorf("delivery %s: %w", delivery.ID, c.err)
	}
	return doc, nil
}

func (d *deliveryDocument) toDomain() (*domain.Delivery, error) {
	var c decimals
	lines := make([]domain.DeliveryLineItem, 0, len(d.Items))
	for _, line := range d.Items {
		lines = append(lines, domain.DeliveryLineItem{
			InventoryItemID: line.InventoryItemID,
			Qty:             c.from(line.Qty),
			UnitCost:        c.from(line.UnitCost),
			LineTotal:       c.from(line.LineTotal),
		})
	}
	delivery := &domain.Delivery{
		ID:          d.ID,
		SupplierID:  d.SupplierID,
		ReferenceNo: d.ReferenceNo,
		DeliveredAt: d.DeliveredAt.UTC(),
		Status:      domain.DeliveryStatus(d.Status),
		Items:       lines,
		TotalCost:   c.from(d.TotalCost),
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if d.ReceivedAt != nil {
		at := d.ReceivedAt.UTC()
		delivery.ReceivedAt = &at
	}
	if c.err != nil {
		return nil, fmt.Errorf("delivery %s: %w", d.ID, c.err)
	}
	return delivery, nil
}

func toExpenseDocument(e *domain.Expense) (*expenseDocument, error) {
	amount, err := sharedmongo.Decimal(e.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", e.ID, err)
	}
	return &expenseDocument{
		ID:       e.ID,
		SpentAt:  e.SpentAt,
		Category: e.Category,
		Amount:   amount,
		Method:   string(e.Method),
		Notes:    e.Notes,
	}, nil
}

func (d *expenseDocument) toDomain() (*domain.Expense, error) {
	amount, err := sharedmongo.FromDecimal(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", d.ID, err)
	}
	return &domain.Expense{
		ID:       d.ID,
		SpentAt:  d.SpentAt.UTC(),
		Category: d.Category,
		Amount:   amount,
		Method:   domain.PaymentMethod(d.Method),
		Notes:    d.Notes,
	}, nil
}

func toDailyLogDocument(l *domain.DailyLog) (*dailyLogDocument, error) {
	var c decimals
	incidents := make([]incidentDocument, 0, len(l.Incidents))
	for _, inc := range l.Incidents {
		incidents = append(incidents, incidentDocument{Time: inc.Time, Description: inc.Description})
	}
	doc := &dailyLogDocument{
		ID:          l.ID,
		Date:        l.Date,
		OpeningCash: c.to(l.OpeningCash),
		ClosingCash: c.to(l.ClosingCash),
		Notes:       l.Notes,
		Incidents:   incidents,
		CreatedAt:   l.CreatedAt,
	}
	if c.err != nil {
		return nil, fmt.Errorf("daily log %s: %w", l.ID, c.err)
	}
	return doc, nil
}

func (d *dailyLogDocument) toDomain() (*domain.DailyLog, error) {
	var c decimals
	incidents := make([]domain.Incident, 0, len(d.Incidents))
	for _, inc := range d.Incidents {
		incidents = append(incidents, domain.Incident{Time: inc.Time, Description: inc.Description})
	}
	l := &domain.DailyLog{
		ID:          d.ID,
		Date:        d.Date,
		OpeningCash: c.from(d.OpeningCash),
		ClosingCash: c.from(d.ClosingCash),
		Notes:       d.Notes,
		Incidents:   incidents,
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if c.err != nil {
		return nil, fmt.Errorf("daily log %s: %w", d.ID, c.err)
	}
	return l, nil
}

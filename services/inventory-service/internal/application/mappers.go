package application

import (
	"github.com/google/uuid"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// ToInventoryItemDTO converts a domain InventoryItem to InventoryItemDTO
func ToInventoryItemDTO(item *domain.InventoryItem) *InventoryItemDTO {
	if item == nil {
		return nil
	}

	return &InventoryItemDTO{
		ID:           item.ID,
		Kind:         string(item.Kind),
		Name:         item.Name,
		Unit:         string(item.Unit),
		CurrentQty:   item.CurrentQty,
		ReorderLevel: item.ReorderLevel,
		AvgCost:      item.AvgCost,
		SellPrice:    item.SellPrice,
		StockValue:   domain.Round(item.StockValue()),
		Category:     item.Category,
		SupplierID:   item.SupplierID,
		IsLowStock:   item.IsLowStock(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		Version:      item.Version,
	}
}

// ToInventoryItemDTOs converts a slice of items
func ToInventoryItemDTOs(items []*domain.InventoryItem) []InventoryItemDTO {
	out := make([]InventoryItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, *ToInventoryItemDTO(item))
	}
	return out
}

// ToDeliveryDTO converts a domain Delivery to DeliveryDTO
func ToDeliveryDTO(d *domain.Delivery) *DeliveryDTO {
	if d == nil {
		return nil
	}

	lines := make([]DeliveryLineDTO, 0, len(d.Items))
	for _, line := range d.Items {
		lines = append(lines, DeliveryLineDTO{
			InventoryItemID: line.InventoryItemID,
			Qty:             line.Qty,
			UnitCost:        line.UnitCost,
			LineTotal:       line.LineTotal,
		})
	}

	return &DeliveryDTO{
		ID:          d.ID,
		SupplierID:  d.SupplierID,
		ReferenceNo: d.ReferenceNo,
		DeliveredAt: d.DeliveredAt,
		Status:      string(d.Status),
		Items:       lines,
		TotalCost:   d.TotalCost,
		CreatedAt:   d.CreatedAt,
		ReceivedAt:  d.ReceivedAt,
	}
}

// ToDeliveryDTOs converts a slice of deliveries
func ToDeliveryDTOs(deliveries []*domain.Delivery) []DeliveryDTO {
	out := make([]DeliveryDTO, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, *ToDeliveryDTO(d))
	}
	return out
}

// ToSupplierDTO converts a domain Supplier to SupplierDTO
func ToSupplierDTO(s *domain.Supplier) SupplierDTO {
	return SupplierDTO{ID: s.ID, Name: s.Name, Contact: s.Contact, CreatedAt: s.CreatedAt}
}

// ToExpenseDTO converts a domain Expense to ExpenseDTO
func ToExpenseDTO(e *domain.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:       e.ID,
		SpentAt:  e.SpentAt,
		Category: e.Category,
		Amount:   e.Amount,
		Method:   string(e.Method),
		Notes:    e.Notes,
	}
}

// ToDailyLogDTO converts a domain DailyLog to DailyLogDTO
func ToDailyLogDTO(l *domain.DailyLog) DailyLogDTO {
	incidents := make([]IncidentDTO, 0, len(l.Incidents))
	for _, inc := range l.Incidents {
		incidents = append(incidents, IncidentDTO{Time: inc.Time, Description: inc.Description})
	}
	return DailyLogDTO{
		ID:          l.ID,
		Date:        l.Date,
		OpeningCash: l.OpeningCash,
		ClosingCash: l.ClosingCash,
		Notes:       l.Notes,
		Incidents:   incidents,
		CreatedAt:   l.CreatedAt,
	}
}

package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SeedResult counts the records a seed run created
type SeedResult struct {
	Skipped   bool
	Suppliers int
	Items     int
	Expenses  int
}

// Seeder loads the station demo data through the services
type Seeder struct {
	ledger  *LedgerService
	records *RecordsService
}

// NewSeeder creates a new Seeder
func NewSeeder(ledger *LedgerService, records *RecordsService) *Seeder {
	return &Seeder{ledger: ledger, records: records}
}

type seedItem struct {
	kind, name, unit, category string
	qty, reorder               int64
	avgCost, sellPrice         string
	supplier                   int
}

var (
	seedSuppliers = []CreateSupplierCommand{
		{Name: "Emirates Bulk Fuels", Contact: "+971 50 000 0000"},
		{Name: "Al Marai Snacks", Contact: "+971 50 111 1111"},
	}

	seedItems = []seedItem{
		{kind: "fuel", name: "Super 98", unit: "L", category: "Fuel", qty: 12500, reorder: 5000, avgCost: "2.85", sellPrice: "3.15", supplier: 0},
		{kind: "fuel", name: "Special 95", unit: "L", category: "Fuel", qty: 8000, reorder: 6000, avgCost: "2.75", sellPrice: "3.03", supplier: 0},
		{kind: "fuel", name: "Diesel", unit: "L", category: "Fuel", qty: 22000, reorder: 10000, avgCost: "2.90", sellPrice: "3.20", supplier: 0},
		{kind: "shop", name: "Water 500ml", unit: "pcs", category: "Beverage", qty: 150, reorder: 50, avgCost: "0.50", sellPrice: "1.50", supplier: 1},
		{kind: "shop", name: "Engine Oil 4L", unit: "pcs", category: "Automotive", qty: 12, reorder: 10, avgCost: "45.00", sellPrice: "85.00", supplier: 1},
	}
)

// Seed creates the demo suppliers, items and a utilities expense. A store
// that already has suppliers is left untouched.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	existing, err := s.records.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &SeedResult{Skipped: true}, nil
	}

	result := &SeedResult{}
	supplierIDs := make([]string, 0, len(seedSuppliers))
	for _, cmd := range seedSuppliers {
		supplier, err := s.records.CreateSupplier(ctx, cmd)
		if err != nil {
			return result, fmt.Errorf("supplier %s: %w", cmd.Name, err)
		}
		supplierIDs = append(supplierIDs, supplier.ID)
		result.Suppliers++
	}

	for _, item := range seedItems {
		_, err := s.ledger.CreateItem(ctx, CreateItemCommand{
			Kind:         item.kind,
			Name:         item.name,
			Unit:         item.unit,
			CurrentQty:   decimal.NewFromInt(item.qty),
			ReorderLevel: decimal.NewFromInt(item.reorder),
			AvgCost:      decimal.RequireFromString(item.avgCost),
			SellPrice:    decimal.RequireFromString(item.sellPrice),
			Category:     item.category,
			SupplierID:   supplierIDs[item.supplier],
		})
		if err != nil {
			return result, fmt.Errorf("item %s: %w", item.name, err)
		}
		result.Items++
	}

	_, err = s.records.CreateExpense(ctx, CreateExpenseCommand{
		Category: "Utilities",
		Amount:   decimal.NewFromInt(450),
		Method:   "bank",
		Notes:    "Monthly DEWA bill",
	})
	if err != nil {
		return result, fmt.Errorf("expense: %w", err)
	}
	result.Expenses++

	return result, nil
}

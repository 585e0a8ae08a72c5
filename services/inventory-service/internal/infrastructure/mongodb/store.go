// Package mongodb stores station records in MongoDB. Quantities and money
// are held as Decimal128; item writes are version-checked.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// Store bundles the MongoDB repositories of one database
type Store struct {
	Items      *InventoryRepository
	Deliveries *DeliveryRepository
	Suppliers  *SupplierRepository
	Expenses   *ExpenseRepository
	DailyLogs  *DailyLogRepository
}

// NewStore creates the repositories for db
func NewStore(db *mongo.Database) *Store {
	return &Store{
		Items:      NewInventoryRepository(db),
		Deliveries: NewDeliveryRepository(db),
		Suppliers:  NewSupplierRepository(db),
		Expenses:   NewExpenseRepository(db),
		DailyLogs:  NewDailyLogRepository(db),
	}
}

// EnsureIndexes creates every collection's indexes
func (s *Store) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		collection string
		ensure     func(context.Context) error
	}{
		{ItemsCollection, s.Items.EnsureIndexes},
		{DeliveriesCollection, s.Deliveries.EnsureIndexes},
		{ExpensesCollection, s.Expenses.EnsureIndexes},
		{DailyLogsCollection, s.DailyLogs.EnsureIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", step.collection, err)
		}
	}
	return nil
}

// Repositories returns the store as domain repositories
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Inventory:  s.Items,
		Deliveries: s.Deliveries,
		Suppliers:  s.Suppliers,
		Expenses:   s.Expenses,
		DailyLogs:  s.DailyLogs,
	}
}

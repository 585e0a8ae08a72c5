package domain

import (
	"context"
	"time"
)

// InventoryRepository persists inventory items. Update is a
// compare-and-set: it succeeds only while the stored version equals
// expectedVersion, and on success stores item with Version = expectedVersion+1.
type InventoryRepository interface {
	Create(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id string) (*InventoryItem, error)
	Update(ctx context.Context, item *InventoryItem, expectedVersion int64) error
	FindAll(ctx context.Context, filter ItemFilter) ([]*InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// DeliveryRepository persists deliveries. MarkReceived is conditional on the
// stored status being pending and returns ErrInvalidTransition otherwise.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *Delivery) error
	FindByID(ctx context.Context, id string) (*Delivery, error)
	MarkReceived(ctx context.Context, id string, receivedAt time.Time) error
	// FindAll returns deliveries ordered by deliveredAt descending
	FindAll(ctx context.Context, filter DeliveryFilter) ([]*Delivery, error)
}

// SupplierRepository persists suppliers
type SupplierRepository interface {
	Create(ctx context.Context, supplier *Supplier) error
	FindAll(ctx context.Context) ([]*Supplier, error)
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	// FindAll returns expenses ordered by spentAt descending
	FindAll(ctx context.Context, filter ExpenseFilter) ([]*Expense, error)
}

// DailyLogRepository persists daily logs
type DailyLogRepository interface {
	Create(ctx context.Context, log *DailyLog) error
	// FindRecent returns up to limit logs, newest date first. limit <= 0 returns all.
	FindRecent(ctx context.Context, limit int) ([]*DailyLog, error)
}

// Repositories groups the stores of one backend
type Repositories struct {
	Inventory  InventoryRepository
	Deliveries DeliveryRepository
	Suppliers  SupplierRepository
	Expenses   ExpenseRepository
	DailyLogs  DailyLogRepository
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}

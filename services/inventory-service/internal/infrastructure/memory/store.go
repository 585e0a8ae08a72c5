// Package memory is an in-process record store. It backs local development
// and tests and enforces the same version and status conditions as the
// database backends.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// Store holds every collection behind one mutex
type Store struct {
	mu         sync.RWMutex
	items      map[string]*domain.InventoryItem
	deliveries map[string]*domain.Delivery
	suppliers  map[string]*domain.Supplier
	expenses   map[string]*domain.Expense
	dailyLogs  map[string]*domain.DailyLog
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		items:      make(map[string]*domain.InventoryItem),
		deliveries: make(map[string]*domain.Delivery),
		suppliers:  make(map[string]*domain.Supplier),
		expenses:   make(map[string]*domain.Expense),
		dailyLogs:  make(map[string]*domain.DailyLog),
	}
}

// Repositories returns the store's collections as domain repositories
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Inventory:  &InventoryRepository{store: s},
		Deliveries: &DeliveryRepository{store: s},
		Suppliers:  &SupplierRepository{store: s},
		Expenses:   &ExpenseRepository{store: s},
		DailyLogs:  &DailyLogRepository{store: s},
	}
}

// InventoryRepository implements domain.InventoryRepository
type InventoryRepository struct {
	store *Store
}

// NewInventoryRepository returns the inventory collection of store
func NewInventoryRepository(store *Store) *InventoryRepository {
	return &InventoryRepository{store: store}
}

// Create stores a new item
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.items[item.ID]; exists {
		return fmt.Errorf("inventory item %s already exists", item.ID)
	}
	r.store.items[item.ID] = item.Clone()
	return nil
}

// FindByID returns a copy of the stored item
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.items[id]
	if !ok {
		return nil, domain.NewItemNotFoundError(id)
	}
	return item.Clone(), nil
}

// Update replaces the stored item if its version still equals expectedVersion
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.items[item.ID]
	if !ok {
		return domain.NewItemNotFoundError(item.ID)
	}
	if stored.Version != expectedVersion {
		return domain.NewConcurrentWriteError(item.ID, expectedVersion)
	}

	item.Version = expectedVersion + 1
	r.store.items[item.ID] = item.Clone()
	return nil
}

// FindAll returns items passing filter ordered by name
func (r *InventoryRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]*domain.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.InventoryItem, 0, len(r.store.items))
	for _, item := range r.store.items {
		if filter.Matches(item) {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !strings.EqualFold(out[a].Name, out[b].Name) {
			return strings.ToLower(out[a].Name) < strings.ToLower(out[b].Name)
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.items[id]; !ok {
		return domain.NewItemNotFoundError(id)
	}
	delete(r.store.items, id)
	return nil
}

// DeliveryRepository implements domain.DeliveryRepository
type DeliveryRepository struct {
	store *Store
}

// Create stores a new delivery
func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.deliveries[delivery.ID]; exists {
		return fmt.Errorf("delivery %s already exists", delivery.ID)
	}
	r.store.deliveries[delivery.ID] = cloneDelivery(delivery)
	return nil
}

// FindByID returns a copy of the stored delivery
func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*domain.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.deliveries[id]
	if !ok {
		return nil, domain.NewDeliveryNotFoundError(id)
	}
	return cloneDelivery(d), nil
}

// MarkReceived moves a pending delivery to received
func (r *DeliveryRepository) MarkReceived(ctx context.Context, id string, receivedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.deliveries[id]
	if !ok {
		return domain.NewDeliveryNotFoundError(id)
	}
	updated := cloneDelivery(d)
	if err := updated.MarkReceived(receivedAt); err != nil {
		return err
	}
	r.store.deliveries[id] = updated
	return nil
}

// FindAll returns deliveries passing filter, newest delivery date first
func (r *DeliveryRepository) FindAll(ctx context.Context, filter domain.DeliveryFilter) ([]*domain.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Delivery, 0, len(r.store.deliveries))
	for _, d := range r.store.deliveries {
		if filter.Matches(d) {
			out = append(out, cloneDelivery(d))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].DeliveredAt.Equal(out[b].DeliveredAt) {
			return out[a].DeliveredAt.After(out[b].DeliveredAt)
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

func cloneDelivery(d *domain.Delivery) *domain.Delivery {
	c := &domain.Delivery{
		ID:          d.ID,
		SupplierID:  d.SupplierID,
		ReferenceNo: d.ReferenceNo,
		DeliveredAt: d.DeliveredAt,
		Status:      d.Status,
		Items:       append([]domain.DeliveryLineItem(nil), d.Items...),
		TotalCost:   d.TotalCost,
		CreatedAt:   d.CreatedAt,
	}
	if d.ReceivedAt != nil {
		at := *d.ReceivedAt
		c.ReceivedAt = &at
	}
	return c
}

// SupplierRepository implements domain.SupplierRepository
type SupplierRepository struct {
	store *Store
}

// Create stores a supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *supplier
	r.store.suppliers[supplier.ID] = &c
	return nil
}

// FindAll returns suppliers ordered by name
func (r *SupplierRepository) FindAll(ctx context.Context) ([]*domain.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Supplier, 0, len(r.store.suppliers))
	for _, s := range r.store.suppliers {
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

// ExpenseRepository implements domain.ExpenseRepository
type ExpenseRepository struct {
	store *Store
}

// Create stores an expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *expense
	r.store.expenses[expense.ID] = &c
	return nil
}

// FindAll returns expenses passing filter, newest first
func (r *ExpenseRepository) FindAll(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Expense, 0, len(r.store.expenses))
	for _, e := range r.store.expenses {
		if filter.Matches(e) {
			c := *e
			out = append(out, &c)
		}
	}
	domain.SortExpensesNewestFirst(out)
	return out, nil
}

// DailyLogRepository implements domain.DailyLogRepository
type DailyLogRepository struct {
	store *Store
}

// Create stores a daily log
func (r *DailyLogRepository) Create(ctx context.Context, log *domain.DailyLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *log
	c.Incidents = append([]domain.Incident(nil), log.Incidents...)
	r.store.dailyLogs[log.ID] = &c
	return nil
}

// FindRecent returns up to limit logs, newest date first
func (r *DailyLogRepository) FindRecent(ctx context.Context, limit int) ([]*domain.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.DailyLog, 0, len(r.store.dailyLogs))
	for _, l := range r.store.dailyLogs {
		c := *l
		out = append(out, &c)
	}
	domain.SortDailyLogsNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

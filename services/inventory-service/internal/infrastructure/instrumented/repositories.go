// Package instrumented decorates domain repositories with metrics, logs and
// spans for every store call
package instrumented

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/tracing"
)

// observer records one store call
type observer struct {
	driver  string
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

func observe[T any](ctx context.Context, o *observer, collection, operation string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	result, err := tracing.TracedOperation(ctx, o.tracer, "store."+collection+"."+operation, fn,
		tracing.StoreSpanAttributes(o.driver, collection, operation)...)
	duration := time.Since(start)

	o.metrics.RecordStoreOperation(o.driver, collection, operation, err == nil || isExpected(err), duration)
	if isExpected(err) {
		o.logger.StoreOperation(ctx, collection, operation, duration, nil)
	} else {
		o.logger.StoreOperation(ctx, collection, operation, duration, err)
	}
	return result, err
}

func observeErr(ctx context.Context, o *observer, collection, operation string, fn func(context.Context) error) error {
	_, err := observe(ctx, o, collection, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// isExpected reports errors that are outcomes of a healthy store rather
// than store failures
func isExpected(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		domain.ErrItemNotFound,
		domain.ErrDeliveryNotFound,
		domain.ErrConcurrentWrite,
		domain.ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Wrap decorates every repository in repos
func Wrap(repos domain.Repositories, driver string, m *metrics.Metrics, logger *logging.Logger) domain.Repositories {
	o := &observer{
		driver:  driver,
		metrics: m,
		logger:  logger.WithComponent("store"),
		tracer:  otel.Tracer("github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/instrumented"),
	}
	return domain.Repositories{
		Inventory:  &inventoryRepository{next: repos.Inventory, o: o},
		Deliveries: &deliveryRepository{next: repos.Deliveries, o: o},
		Suppliers:  &supplierRepository{next: repos.Suppliers, o: o},
		Expenses:   &expenseRepository{next: repos.Expenses, o: o},
		DailyLogs:  &dailyLogRepository{next: repos.DailyLogs, o: o},
	}
}

type inventoryRepository struct {
	next domain.InventoryRepository
	o    *observer
}

func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return observeErr(ctx, r.o, "items", "create", func(ctx context.Context) error {
		return r.next.Create(ctx, item)
	})
}

func (r *inventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return observe(ctx, r.o, "items", "find_by_id", func(ctx context.Context) (*domain.InventoryItem, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *inventoryRepository) Update(ctx context.Context, item *domain.InventoryItem, expectedVersion int64) error {
	return observeErr(ctx, r.o, "items", "update", func(ctx context.Context) error {
		return r.next.Update(ctx, item, expectedVersion)
	})
}

func (r *inventoryRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]*domain.InventoryItem, error) {
	return observe(ctx, r.o, "items", "find_all", func(ctx context.Context) ([]*domain.InventoryItem, error) {
		return r.next.FindAll(ctx, filter)
	})
}

func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	return observeErr(ctx, r.o, "items", "delete", func(ctx context.Context) error {
		return r.next.Delete(ctx, id)
	})
}

type deliveryRepository struct {
	next domain.DeliveryRepository
	o    *observer
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	return observeErr(ctx, r.o, "deliveries", "create", func(ctx context.Context) error {
		return r.next.Create(ctx, delivery)
	})
}

func (r *deliveryRepository) FindByID(ctx context.Context, id string) (*domain.Delivery, error) {
	return observe(ctx, r.o, "deliveries", "find_by_id", func(ctx context.Context) (*domain.Delivery, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *deliveryRepository) MarkReceived(ctx context.Context, id string, receivedAt time.Time) error {
	return observeErr(ctx, r.o, "deliveries", "mark_received", func(ctx context.Context) error {
		return r.next.MarkReceived(ctx, id, receivedAt)
	})
}

func (r *deliveryRepository) FindAll(ctx context.Context, filter domain.DeliveryFilter) ([]*domain.Delivery, error) {
	return observe(ctx, r.o, "deliveries", "find_all", func(ctx context.Context) ([]*domain.Delivery, error) {
		return r.next.FindAll(ctx, filter)
	})
}

type supplierRepository struct {
	next domain.SupplierRepository
	o    *observer
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	return observeErr(ctx, r.o, "suppliers", "create", func(ctx context.Context) error {
		return r.next.Create(ctx, supplier)
	})
}

func (r *supplierRepository) FindAll(ctx context.Context) ([]*domain.Supplier, error) {
	return observe(ctx, r.o, "suppliers", "find_all", r.next.FindAll)
}

type expenseRepository struct {
	next domain.ExpenseRepository
	o    *observer
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	return observeErr(ctx, r.o, "expenses", "create", func(ctx context.Context) error {
		return r.next.Create(ctx, expense)
	})
}

func (r *expenseRepository) FindAll(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	return observe(ctx, r.o, "expenses", "find_all", func(ctx context.Context) ([]*domain.Expense, error) {
		return r.next.FindAll(ctx, filter)
	})
}

type dailyLogRepository struct {
	next domain.DailyLogRepository
	o    *observer
}

func (r *dailyLogRepository) Create(ctx context.Context, log *domain.DailyLog) error {
	return observeErr(ctx, r.o, "dailyLogs", "create", func(ctx context.Context) error {
		return r.next.Create(ctx, log)
	})
}

func (r *dailyLogRepository) FindRecent(ctx context.Context, limit int) ([]*domain.DailyLog, error) {
	return observe(ctx, r.o, "dailyLogs", "find_recent", func(ctx context.Context) ([]*domain.DailyLog, error) {
		return r.next.FindRecent(ctx, limit)
	})
}

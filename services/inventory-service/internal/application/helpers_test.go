package application

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/memory"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/errors"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
)

var testNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("inventory-service")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

func testMetrics() *metrics.Metrics {
	return metrics.New(metrics.DefaultConfig("inventory-service"))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireAppError(t *testing.T, err error, code string) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	return p.PublishAll(ctx, []domain.DomainEvent{event})
}

func (p *recordingPublisher) PublishAll(_ context.Context, events []domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// countingInventory counts reads and writes against the wrapped repository
type countingInventory struct {
	domain.InventoryRepository
	reads  atomic.Int64
	writes atomic.Int64
}

func (r *countingInventory) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	r.reads.Add(1)
	return r.InventoryRepository.FindByID(ctx, id)
}

func (r *countingInventory) Update(ctx context.Context, item *domain.InventoryItem, expectedVersion int64) error {
	r.writes.Add(1)
	return r.InventoryRepository.Update(ctx, item, expectedVersion)
}

// conflictingInventory fails the next n updates with a write conflict
type conflictingInventory struct {
	domain.InventoryRepository
	remaining atomic.Int64
}

func (r *conflictingInventory) Update(ctx context.Context, item *domain.InventoryItem, expectedVersion int64) error {
	if r.remaining.Add(-1) >= 0 {
		return domain.NewConcurrentWriteError(item.ID, expectedVersion)
	}
	return r.InventoryRepository.Update(ctx, item, expectedVersion)
}

// failingDeliveries fails MarkReceived with err
type failingDeliveries struct {
	domain.DeliveryRepository
	err error
}

func (r *failingDeliveries) MarkReceived(context.Context, string, time.Time) error {
	return r.err
}

type fixture struct {
	repos      domain.Repositories
	inventory  *countingInventory
	publisher  *recordingPublisher
	metrics    *metrics.Metrics
	ledger     *LedgerService
	deliveries *DeliveryService
	recon      *ReconciliationService
	reports    *ReportService
	records    *RecordsService
}

type fixtureOption func(*domain.Repositories)

func withDeliveryRepo(wrap func(domain.DeliveryRepository) domain.DeliveryRepository) fixtureOption {
	return func(r *domain.Repositories) { r.Deliveries = wrap(r.Deliveries) }
}

func withInventoryRepo(wrap func(domain.InventoryRepository) domain.InventoryRepository) fixtureOption {
	return func(r *domain.Repositories) { r.Inventory = wrap(r.Inventory) }
}

func newFixture(t *testing.T, maxWriteAttempts int, opts ...fixtureOption) *fixture {
	t.Helper()

	repos := memory.NewStore().Repositories()
	for _, opt := range opts {
		opt(&repos)
	}
	counting := &countingInventory{InventoryRepository: repos.Inventory}
	repos.Inventory = counting

	logger := testLogger()
	m := testMetrics()
	publisher := &recordingPublisher{}

	ledger := NewLedgerService(repos.Inventory, publisher, m, logger, LedgerConfig{MaxWriteAttempts: maxWriteAttempts})
	deliveries := NewDeliveryService(repos.Deliveries, repos.Inventory, publisher, logger)
	f := &fixture{
		repos:      repos,
		inventory:  counting,
		publisher:  publisher,
		metrics:    m,
		ledger:     ledger,
		deliveries: deliveries,
		recon:      NewReconciliationService(deliveries, ledger, publisher, m, logger),
		reports:    NewReportService(repos, m, logger),
		records:    NewRecordsService(repos, logger),
	}

	clock := func() time.Time { return testNow }
	f.ledger.now = clock
	f.deliveries.now = clock
	f.recon.now = clock
	f.reports.now = clock
	f.records.now = clock
	return f
}

func (f *fixture) seedItem(t *testing.T, name, qty, avgCost, reorder string) string {
	t.Helper()
	item, err := f.ledger.CreateItem(context.Background(), CreateItemCommand{
		Kind:         "fuel",
		Name:         name,
		Unit:         "L",
		CurrentQty:   dec(qty),
		ReorderLevel: dec(reorder),
		AvgCost:      dec(avgCost),
		Category:     "Fuel",
	})
	require.NoError(t, err)
	return item.ID
}

type line struct {
	itemID   string
	qty      string
	unitCost string
}

func (f *fixture) seedDelivery(t *testing.T, lines ...line) string {
	t.Helper()
	cmd := CreateDeliveryCommand{SupplierID: "SUP-1", ReferenceNo: "INV-001", DeliveredAt: testNow}
	for _, l := range lines {
		cmd.Items = append(cmd.Items, DeliveryLineCommand{
			InventoryItemID: l.itemID,
			Qty:             dec(l.qty),
			UnitCost:        dec(l.unitCost),
		})
	}
	d, err := f.deliveries.Create(context.Background(), cmd)
	require.NoError(t, err)
	return d.ID
}

func (f *fixture) item(t *testing.T, id string) *domain.InventoryItem {
	t.Helper()
	item, err := f.repos.Inventory.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item
}

func (f *fixture) delivery(t *testing.T, id string) *domain.Delivery {
	t.Helper()
	d, err := f.repos.Deliveries.FindByID(context.Background(), id)
	require.NoError(t, err)
	return d
}

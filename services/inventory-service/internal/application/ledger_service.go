package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/resilience"
)

// LedgerConfig tunes ledger writes
type LedgerConfig struct {
	// MaxWriteAttempts bounds read-compute-write attempts per item update
	// when the stored version moved underneath the writer
	MaxWriteAttempts int `yaml:"maxWriteAttempts"`
}

// DefaultLedgerConfig returns the default ledger configuration
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{MaxWriteAttempts: resilience.DefaultConflictMaxAttempts}
}

// LedgerService owns inventory item quantities and weighted-average costs
type LedgerService struct {
	repo      domain.InventoryRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
	config    LedgerConfig
	now       func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	repo domain.InventoryRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
	config LedgerConfig,
) *LedgerService {
	return &LedgerService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger.WithComponent("ledger"),
		config:    config,
		now:       utcNow,
	}
}

// CreateItem adds an item to the catalogue
func (s *LedgerService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*InventoryItemDTO, error) {
	item, err := domain.NewInventoryItem(domain.NewItemParams{
		ID:           newID("ITM"),
		Kind:         domain.ItemKind(cmd.Kind),
		Name:         cmd.Name,
		Unit:         domain.Unit(cmd.Unit),
		CurrentQty:   cmd.CurrentQty,
		ReorderLevel: cmd.ReorderLevel,
		AvgCost:      cmd.AvgCost,
		SellPrice:    cmd.SellPrice,
		Category:     cmd.Category,
		SupplierID:   cmd.SupplierID,
	}, s.now())
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create item", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	publishEvents(ctx, s.publisher, s.logger, item.DomainEvents())
	s.logger.Info("Created inventory item", "itemId", item.ID, "name", item.Name, "kind", item.Kind)
	return ToInventoryItemDTO(item), nil
}

// GetItem retrieves an inventory item by id
func (s *LedgerService) GetItem(ctx context.Context, itemID string) (*InventoryItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return ToInventoryItemDTO(item), nil
}

// ListItems lists items matching query ordered by name
func (s *LedgerService) ListItems(ctx context.Context, query ListItemsQuery) ([]InventoryItemDTO, error) {
	filter := domain.ItemFilter{Kind: domain.ItemKind(query.Kind), Search: query.Search}
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, mapDomainError(fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidItem, query.Kind))
	}

	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list items", "error", err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return ToInventoryItemDTOs(items), nil
}

// DeleteItem removes an item. Deliveries referencing it keep their lines.
func (s *LedgerService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return mapDomainError(err)
	}

	publishEvents(ctx, s.publisher, s.logger, []domain.DomainEvent{
		&domain.ItemDeletedEvent{ItemID: itemID, DeletedAt: s.now()},
	})
	s.logger.Audit(ctx, "delete", "inventory_item", itemID, nil)
	return nil
}

// ApplyReceipt receives qty units at unitCost into an item, recomputing its
// weighted-average cost
func (s *LedgerService) ApplyReceipt(ctx context.Context, cmd ApplyReceiptCommand) (*InventoryItemDTO, error) {
	item, err := s.applyReceipt(ctx, cmd.ItemID, cmd.Qty, cmd.UnitCost, "")
	if err != nil {
		return nil, mapDomainError(err)
	}

	publishEvents(ctx, s.publisher, s.logger, item.DomainEvents())
	return ToInventoryItemDTO(item), nil
}

// applyReceipt performs the version-checked write and returns the stored
// item with its domain events. Errors are domain errors.
func (s *LedgerService) applyReceipt(ctx context.Context, itemID string, qty, unitCost decimal.Decimal, deliveryID string) (*domain.InventoryItem, error) {
	qty, unitCost = domain.Round(qty), domain.Round(unitCost)
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: receipt quantity must be positive, got %s", domain.ErrInvalidQuantity, qty)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost must not be negative, got %s", domain.ErrInvalidQuantity, unitCost)
	}

	ctx, span := tracer.Start(ctx, "ledger.ApplyReceipt", trace.WithAttributes(
		attribute.String("item.id", itemID),
		attribute.String("receipt.qty", qty.String()),
		attribute.String("delivery.id", deliveryID),
	))
	defer span.End()

	item, err := s.writeWithRetry(ctx, "apply_receipt", itemID, func(item *domain.InventoryItem) error {
		return item.ApplyReceipt(qty, unitCost, s.now())
	})

	kind := "unknown"
	if item != nil {
		kind = string(item.Kind)
	}
	s.metrics.RecordReceiptApplied(kind, err == nil)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, event := range item.DomainEvents() {
		if received, ok := event.(*domain.StockReceivedEvent); ok {
			received.DeliveryID = deliveryID
		}
	}
	return item, nil
}

// Adjust overrides an item's stock figures
func (s *LedgerService) Adjust(ctx context.Context, cmd AdjustItemCommand) (*InventoryItemDTO, error) {
	adjustment := domain.Adjustment{
		Qty:          cmd.CurrentQty,
		AvgCost:      cmd.AvgCost,
		SellPrice:    cmd.SellPrice,
		ReorderLevel: cmd.ReorderLevel,
		Category:     cmd.Category,
		Reason:       cmd.Reason,
	}

	item, err := s.writeWithRetry(ctx, "adjust", cmd.ItemID, func(item *domain.InventoryItem) error {
		return item.Adjust(adjustment, s.now())
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	publishEvents(ctx, s.publisher, s.logger, item.DomainEvents())
	s.logger.Audit(ctx, "adjust", "inventory_item", item.ID, map[string]any{
		"currentQty": item.CurrentQty.String(),
		"avgCost":    item.AvgCost.String(),
		"reason":     cmd.Reason,
	})
	return ToInventoryItemDTO(item), nil
}

// writeWithRetry reads the item, applies mutate and writes it back with a
// version check, re-reading and retrying on conflicts up to MaxWriteAttempts
func (s *LedgerService) writeWithRetry(ctx context.Context, operation, itemID string, mutate func(*domain.InventoryItem) error) (*domain.InventoryItem, error) {
	var conflicts int
	var last *domain.InventoryItem

	cfg := resilience.ConflictRetryConfig(s.config.MaxWriteAttempts, isWriteConflict)
	cfg.OnRetry = func(attempt int, err error) {
		conflicts++
		s.logger.Debug("Retrying item write after conflict", "itemId", itemID, "operation", operation, "attempt", attempt)
	}

	item, err := resilience.RetryWithResult(ctx, cfg, func() (*domain.InventoryItem, error) {
		item, err := s.repo.FindByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		last = item

		expected := item.Version
		qtyBefore, costBefore := item.CurrentQty, item.AvgCost
		if err := mutate(item); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, item, expected); err != nil {
			return nil, err
		}

		s.logger.StockMovement(ctx, item.ID, operation,
			qtyBefore.String(), item.CurrentQty.String(),
			costBefore.String(), item.AvgCost.String())
		return item, nil
	})

	if conflicts > 0 || isWriteConflict(err) {
		s.metrics.RecordWriteConflict(operation, err == nil)
	}
	if err != nil {
		if isWriteConflict(err) {
			s.logger.Warn("Item write conflict not resolved", "itemId", itemID, "operation", operation, "attempts", cfg.MaxAttempts)
		}
		if last != nil {
			return last, err
		}
		return nil, err
	}
	return item, nil
}

func isWriteConflict(err error) bool {
	return stderrors.Is(err, domain.ErrConcurrentWrite)
}

package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

// DeliveryService records supplier deliveries and their status
type DeliveryService struct {
	repo      domain.DeliveryRepository
	items     domain.InventoryRepository
	publisher domain.EventPublisher
	logger    *logging.Logger
	now       func() time.Time
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	repo domain.DeliveryRepository,
	items domain.InventoryRepository,
	publisher domain.EventPublisher,
	logger *logging.Logger,
) *DeliveryService {
	return &DeliveryService{
		repo:      repo,
		items:     items,
		publisher: publisher,
		logger:    logger.WithComponent("deliveries"),
		now:       utcNow,
	}
}

// Create records a pending delivery; inventory is not touched until the
// delivery is received. The check that every line references an existing
// item is advisory: an item deleted after Create surfaces as a partial
// receipt failure when the delivery is received.
func (s *DeliveryService) Create(ctx context.Context, cmd CreateDeliveryCommand) (*DeliveryDTO, error) {
	lines := make([]domain.NewLineItem, 0, len(cmd.Items))
	for _, line := range cmd.Items {
		lines = append(lines, domain.NewLineItem{
			InventoryItemID: line.InventoryItemID,
			Qty:             line.Qty,
			UnitCost:        line.UnitCost,
		})
	}

	delivery, err := domain.NewDelivery(domain.NewDeliveryParams{
		ID:          newID("DLV"),
		SupplierID:  cmd.SupplierID,
		ReferenceNo: cmd.ReferenceNo,
		DeliveredAt: cmd.DeliveredAt.UTC(),
		Items:       lines,
	}, s.now())
	if err != nil {
		return nil, mapDomainError(err)
	}

	for idx, line := range delivery.Items {
		if _, err := s.items.FindByID(ctx, line.InventoryItemID); err != nil {
			if stderrors.Is(err, domain.ErrItemNotFound) {
				return nil, mapDomainError(fmt.Errorf("line %d: %w", idx, err))
			}
			return nil, fmt.Errorf("failed to check line %d: %w", idx, err)
		}
	}

	if err := s.repo.Create(ctx, delivery); err != nil {
		s.logger.Error("Failed to create delivery", "supplierId", cmd.SupplierID, "error", err)
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	publishEvents(ctx, s.publisher, s.logger, delivery.DomainEvents())
	s.logger.Info("Recorded delivery",
		"deliveryId", delivery.ID,
		"supplierId", delivery.SupplierID,
		"lines", len(delivery.Items),
		"totalCost", delivery.TotalCost.String(),
	)
	return ToDeliveryDTO(delivery), nil
}

// Get retrieves a delivery by id
func (s *DeliveryService) Get(ctx context.Context, deliveryID string) (*DeliveryDTO, error) {
	delivery, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return ToDeliveryDTO(delivery), nil
}

// List lists deliveries, newest delivery date first
func (s *DeliveryService) List(ctx context.Context, query ListDeliveriesQuery) ([]DeliveryDTO, error) {
	filter := domain.DeliveryFilter{Status: domain.DeliveryStatus(query.Status)}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, mapDomainError(fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRecord, query.Status))
	}

	deliveries, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list deliveries", "error", err)
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return ToDeliveryDTOs(deliveries), nil
}

// MarkReceived moves a pending delivery to received without touching
// inventory. A delivery that is missing or not pending is an invalid
// transition.
func (s *DeliveryService) MarkReceived(ctx context.Context, deliveryID string) (*DeliveryDTO, error) {
	if _, err := s.markReceived(ctx, deliveryID); err != nil {
		if stderrors.Is(err, domain.ErrDeliveryNotFound) {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidTransition, err)
		}
		return nil, mapDomainError(err)
	}

	delivery, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return ToDeliveryDTO(delivery), nil
}

// markReceived performs the conditional status write and returns the
// receipt time. Errors are domain errors.
func (s *DeliveryService) markReceived(ctx context.Context, deliveryID string) (time.Time, error) {
	receivedAt := s.now()
	if err := s.repo.MarkReceived(ctx, deliveryID, receivedAt); err != nil {
		return time.Time{}, err
	}

	s.logger.Audit(ctx, "mark_received", "delivery", deliveryID, map[string]any{
		"receivedAt": receivedAt,
	})
	return receivedAt, nil
}

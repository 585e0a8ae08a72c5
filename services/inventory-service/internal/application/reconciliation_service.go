package application

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/errors"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
)

// Reconciliation outcomes recorded in metrics
const (
	OutcomeReceived        = "received"
	OutcomeAlreadyReceived = "already_received"
	OutcomePartialFailure  = "partial_failure"
	OutcomeFinalizeFailure = "finalize_failure"
	OutcomeInProgress      = "in_progress"
	OutcomeCancelled       = "cancelled"
	OutcomeNotFound        = "not_found"
	OutcomeError           = "error"
)

// ReconciliationService applies pending deliveries to the inventory ledger
// and closes them out
type ReconciliationService struct {
	deliveries *DeliveryService
	ledger     *LedgerService
	publisher  domain.EventPublisher
	metrics    *metrics.Metrics
	logger     *logging.Logger
	now        func() time.Time

	// claims holds the ids of deliveries currently being received by this
	// process
	claims sync.Map
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	deliveries *DeliveryService,
	ledger *LedgerService,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		deliveries: deliveries,
		ledger:     ledger,
		publisher:  publisher,
		metrics:    m,
		logger:     logger.WithComponent("reconciliation"),
		now:        utcNow,
	}
}

// Receive applies every line of a pending delivery to inventory, in listed
// order, then marks the delivery received.
//
// Cancelling ctx before the first ledger write leaves everything untouched.
// Once lines start being written the receipt runs to completion and reports
// a partial or finalize failure rather than stopping half way.
func (s *ReconciliationService) Receive(ctx context.Context, deliveryID string) (*ReceiptResultDTO, error) {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "reconciliation.Receive", trace.WithAttributes(
		attribute.String("delivery.id", deliveryID),
	))
	defer span.End()

	result, outcome, err := s.receive(ctx, deliveryID)

	s.metrics.RecordReconciliation(outcome, time.Since(start))
	span.SetAttributes(attribute.String("reconciliation.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, mapDomainError(err)
	}
	return result, nil
}

func (s *ReconciliationService) receive(ctx context.Context, deliveryID string) (*ReceiptResultDTO, string, error) {
	if _, held := s.claims.LoadOrStore(deliveryID, struct{}{}); held {
		s.logger.Warn("Delivery receipt already in progress", "deliveryId", deliveryID)
		return nil, OutcomeInProgress, errors.ErrReceiptInProgress(deliveryID).Wrap(domain.ErrReceiptInProgress)
	}
	defer s.claims.Delete(deliveryID)

	if err := ctx.Err(); err != nil {
		return nil, OutcomeCancelled, err
	}

	delivery, err := s.deliveries.repo.FindByID(ctx, deliveryID)
	if err != nil {
		if stderrors.Is(err, domain.ErrDeliveryNotFound) {
			return nil, OutcomeNotFound, err
		}
		if ctx.Err() != nil {
			return nil, OutcomeCancelled, err
		}
		return nil, OutcomeError, err
	}
	if !delivery.IsPending() {
		return nil, OutcomeAlreadyReceived, errors.ErrAlreadyReceived(deliveryID).Wrap(domain.ErrAlreadyReceived)
	}

	if err := ctx.Err(); err != nil {
		return nil, OutcomeCancelled, err
	}
	// No cancellation from here on: the first ledger write is about to commit.
	ctx = context.WithoutCancel(ctx)

	logger := s.logger.WithContext(ctx)
	logger.Info("Receiving delivery", "deliveryId", deliveryID, "lines", len(delivery.Items))

	lines := make([]domain.LineOutcome, len(delivery.Items))
	for idx, line := range delivery.Items {
		lines[idx] = domain.LineOutcome{Index: idx, InventoryItemID: line.InventoryItemID, Status: domain.LineSkipped}
	}

	var events []domain.DomainEvent
	var items []*domain.InventoryItem
	for idx, line := range delivery.Items {
		item, err := s.ledger.applyReceipt(ctx, line.InventoryItemID, line.Qty, line.UnitCost, deliveryID)
		if err != nil {
			lines[idx].Status = domain.LineFailed
			lines[idx].Reason = err.Error()

			partial := &domain.PartialReceiptError{DeliveryID: deliveryID, Lines: lines, Err: err}
			logger.Error("Delivery partially received",
				"deliveryId", deliveryID,
				"failedLine", idx,
				"itemId", line.InventoryItemID,
				"appliedLines", domain.FormatLines(partial.AppliedLines()),
				"error", err,
			)
			s.publishPartial(ctx, events, deliveryID, lines, err)
			return nil, OutcomePartialFailure, partial
		}

		lines[idx].Status = domain.LineApplied
		events = append(events, item.DomainEvents()...)
		items = append(items, item)
	}

	receivedAt, err := s.deliveries.markReceived(ctx, deliveryID)
	if err != nil {
		finalize := &domain.FinalizeError{DeliveryID: deliveryID, Lines: lines, Err: err}
		logger.Error("Delivery applied but not finalized", "deliveryId", deliveryID, "error", err)
		s.publishPartial(ctx, events, deliveryID, lines, err)
		return nil, OutcomeFinalizeFailure, finalize
	}

	delivery.Status = domain.DeliveryReceived
	delivery.ReceivedAt = &receivedAt

	events = append(events, &domain.DeliveryReceivedEvent{
		DeliveryID: deliveryID,
		SupplierID: delivery.SupplierID,
		Lines:      len(delivery.Items),
		TotalCost:  delivery.TotalCost,
		ReceivedAt: receivedAt,
	})
	publishEvents(ctx, s.publisher, s.logger, events)

	latest := latestItems(items)
	result := &ReceiptResultDTO{
		Delivery:        *ToDeliveryDTO(delivery),
		Lines:           lines,
		Items:           ToInventoryItemDTOs(latest),
		LowStockItemIDs: domain.EvaluateLowStock(latest).IDs(),
	}

	logger.Info("Delivery received",
		"deliveryId", deliveryID,
		"lines", len(lines),
		"totalCost", delivery.TotalCost.String(),
		"lowStockItems", len(result.LowStockItemIDs),
	)
	return result, OutcomeReceived, nil
}

// publishPartial publishes the events of the lines that did commit followed
// by a partial receipt event
func (s *ReconciliationService) publishPartial(ctx context.Context, events []domain.DomainEvent, deliveryID string, lines []domain.LineOutcome, cause error) {
	events = append(events, &domain.DeliveryPartiallyReceivedEvent{
		DeliveryID: deliveryID,
		Lines:      lines,
		Reason:     cause.Error(),
		FailedAt:   s.now(),
	})
	publishEvents(ctx, s.publisher, s.logger, events)
}

// latestItems keeps the last written state of each item, in first-seen order
func latestItems(items []*domain.InventoryItem) []*domain.InventoryItem {
	index := make(map[string]int, len(items))
	out := make([]*domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ID]; ok {
			out[i] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

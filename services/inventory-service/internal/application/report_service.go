package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
)

// dashboardLowStockLimit caps the low items listed on the dashboard
const dashboardLowStockLimit = 5

// ReportService builds read-only station reports
type ReportService struct {
	repos   domain.Repositories
	metrics *metrics.Metrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(repos domain.Repositories, m *metrics.Metrics, logger *logging.Logger) *ReportService {
	return &ReportService{
		repos:   repos,
		metrics: m,
		logger:  logger.WithComponent("reports"),
		now:     utcNow,
	}
}

// LowStock lists every item at or below its reorder level
func (s *ReportService) LowStock(ctx context.Context) (*LowStockReportDTO, error) {
	items, err := s.repos.Inventory.FindAll(ctx, domain.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	low := domain.LowStockItems(items)
	s.metrics.SetLowStockItems(len(low))

	return &LowStockReportDTO{
		Count: len(low),
		Items: ToInventoryItemDTOs(low),
	}, nil
}

// Dashboard returns the station overview
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	now := s.now()

	items, err := s.repos.Inventory.FindAll(ctx, domain.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	pending, err := s.repos.Deliveries.FindAll(ctx, domain.DeliveryFilter{Status: domain.DeliveryPending})
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	dayStart, dayEnd := domain.DayBounds(now)
	expenses, err := s.repos.Expenses.FindAll(ctx, domain.ExpenseFilter{Since: dayStart, Until: dayEnd})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	low := domain.LowStockItems(items)
	s.metrics.SetLowStockItems(len(low))

	shown := low
	if len(shown) > dashboardLowStockLimit {
		shown = shown[:dashboardLowStockLimit]
	}

	return &DashboardDTO{
		LowStockCount:      len(low),
		LowStockItems:      ToInventoryItemDTOs(shown),
		TotalStockValue:    totalStockValue(items),
		PendingDeliveries:  len(pending),
		TodayExpensesTotal: domain.SummarizeExpenses(expenses).Total,
		GeneratedAt:        now,
	}, nil
}

// InventoryValue returns stock value grouped by category, largest first
func (s *ReportService) InventoryValue(ctx context.Context) (*InventoryValueDTO, error) {
	items, err := s.repos.Inventory.FindAll(ctx, domain.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	byCategory := make(map[string]*CategoryValueDTO)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = string(item.Kind)
		}
		entry, ok := byCategory[category]
		if !ok {
			entry = &CategoryValueDTO{Category: category, Value: decimal.Zero}
			byCategory[category] = entry
		}
		entry.Items++
		entry.Value = entry.Value.Add(item.StockValue())
	}

	out := make([]CategoryValueDTO, 0, len(byCategory))
	for _, entry := range byCategory {
		entry.Value = domain.Round(entry.Value)
		out = append(out, *entry)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Value.Equal(out[b].Value) {
			return out[a].Value.GreaterThan(out[b].Value)
		}
		return out[a].Category < out[b].Category
	})

	return &InventoryValueDTO{
		Total:      totalStockValue(items),
		ByCategory: out,
	}, nil
}

func totalStockValue(items []*domain.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.StockValue())
	}
	return domain.Round(total)
}

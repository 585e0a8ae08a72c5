package application

import (
	"context"
	"fmt"
	"time"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

// DefaultDailyLogLimit is how many daily logs are listed when no limit is given
const DefaultDailyLogLimit = 7

// RecordsService manages suppliers, expenses and daily logs
type RecordsService struct {
	suppliers domain.SupplierRepository
	expenses  domain.ExpenseRepository
	dailyLogs domain.DailyLogRepository
	logger    *logging.Logger
	now       func() time.Time
}

// NewRecordsService creates a new RecordsService
func NewRecordsService(repos domain.Repositories, logger *logging.Logger) *RecordsService {
	return &RecordsService{
		suppliers: repos.Suppliers,
		expenses:  repos.Expenses,
		dailyLogs: repos.DailyLogs,
		logger:    logger.WithComponent("records"),
		now:       utcNow,
	}
}

// CreateSupplier adds a supplier
func (s *RecordsService) CreateSupplier(ctx context.Context, cmd CreateSupplierCommand) (*SupplierDTO, error) {
	supplier, err := domain.NewSupplier(newID("SUP"), cmd.Name, cmd.Contact, s.now())
	if err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.Info("Created supplier", "supplierId", supplier.ID, "name", supplier.Name)
	dto := ToSupplierDTO(supplier)
	return &dto, nil
}

// ListSuppliers lists suppliers by name
func (s *RecordsService) ListSuppliers(ctx context.Context) ([]SupplierDTO, error) {
	suppliers, err := s.suppliers.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	out := make([]SupplierDTO, 0, len(suppliers))
	for _, supplier := range suppliers {
		out = append(out, ToSupplierDTO(supplier))
	}
	return out, nil
}

// CreateExpense records an expense. A zero spentAt means now.
func (s *RecordsService) CreateExpense(ctx context.Context, cmd CreateExpenseCommand) (*ExpenseDTO, error) {
	spentAt := cmd.SpentAt
	if spentAt.IsZero() {
		spentAt = s.now()
	}

	expense, err := domain.NewExpense(newID("EXP"), spentAt, cmd.Category, cmd.Amount, domain.PaymentMethod(cmd.Method), cmd.Notes)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Audit(ctx, "create", "expense", expense.ID, map[string]any{
		"category": expense.Category,
		"amount":   expense.Amount.String(),
		"method":   string(expense.Method),
	})
	dto := ToExpenseDTO(expense)
	return &dto, nil
}

// ListExpenses lists expenses newest first with their totals. Totals cover
// the listed expenses only.
func (s *RecordsService) ListExpenses(ctx context.Context, query ListExpensesQuery) (*ExpenseListDTO, error) {
	expenses, err := s.expenses.FindAll(ctx, domain.ExpenseFilter{Category: query.Category})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	domain.SortExpensesNewestFirst(expenses)
	if query.Limit > 0 && len(expenses) > query.Limit {
		expenses = expenses[:query.Limit]
	}

	summary := domain.SummarizeExpenses(expenses)
	out := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ToExpenseDTO(e))
	}
	return &ExpenseListDTO{
		Expenses:   out,
		Total:      summary.Total,
		ByCategory: summary.ByCategory,
	}, nil
}

// CreateDailyLog records the cash and incidents of one day
func (s *RecordsService) CreateDailyLog(ctx context.Context, cmd CreateDailyLogCommand) (*DailyLogDTO, error) {
	incidents := make([]domain.Incident, 0, len(cmd.Incidents))
	for _, inc := range cmd.Incidents {
		incidents = append(incidents, domain.Incident{Time: inc.Time, Description: inc.Description})
	}

	log, err := domain.NewDailyLog(newID("LOG"), cmd.Date, cmd.OpeningCash, cmd.ClosingCash, cmd.Notes, incidents, s.now())
	if err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.dailyLogs.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create daily log: %w", err)
	}

	s.logger.Info("Recorded daily log", "logId", log.ID, "date", log.Date, "incidents", len(log.Incidents))
	dto := ToDailyLogDTO(log)
	return &dto, nil
}

// ListDailyLogs returns the most recent logs, newest date first
func (s *RecordsService) ListDailyLogs(ctx context.Context, limit int) ([]DailyLogDTO, error) {
	if limit <= 0 {
		limit = DefaultDailyLogLimit
	}

	logs, err := s.dailyLogs.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}

	domain.SortDailyLogsNewestFirst(logs)
	out := make([]DailyLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToDailyLogDTO(l))
	}
	return out, nil
}

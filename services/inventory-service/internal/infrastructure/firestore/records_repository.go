package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// SupplierRepository implements domain.SupplierRepository
type SupplierRepository struct {
	client *firestore.Client
}

// NewSupplierRepository creates a new SupplierRepository
func NewSupplierRepository(client *firestore.Client) *SupplierRepository {
	return &SupplierRepository{client: client}
}

// Create stores a supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	doc := &supplierDocument{Name: supplier.Name, Contact: supplier.Contact, CreatedAt: supplier.CreatedAt}
	if _, err := r.client.Collection(SuppliersCollection).Doc(supplier.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// FindAll lists suppliers by name ignoring case
func (r *SupplierRepository) FindAll(ctx context.Context) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	err := each(r.client.Collection(SuppliersCollection).Documents(ctx), func(snap *firestore.DocumentSnapshot) error {
		var doc supplierDocument
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		suppliers = append(suppliers, &domain.Supplier{
			ID:        snap.Ref.ID,
			Name:      doc.Name,
			Contact:   doc.Contact,
			CreatedAt: doc.CreatedAt.UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	sort.Slice(suppliers, func(a, b int) bool {
		return strings.ToLower(suppliers[a].Name) < strings.ToLower(suppliers[b].Name)
	})
	return suppliers, nil
}

// ExpenseRepository implements domain.ExpenseRepository
type ExpenseRepository struct {
	client *firestore.Client
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(client *firestore.Client) *ExpenseRepository {
	return &ExpenseRepository{client: client}
}

// Create stores an expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	if _, err := r.client.Collection(ExpensesCollection).Doc(expense.ID).Create(ctx, toExpenseDocument(expense)); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// FindAll lists expenses newest first. The date range is queried; category
// is matched ignoring case after loading.
func (r *ExpenseRepository) FindAll(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	query := r.client.Collection(ExpensesCollection).Query
	if !filter.Since.IsZero() {
		query = query.Where("spentAt", ">=", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("spentAt", "<", filter.Until)
	}

	var expenses []*domain.Expense
	err := each(query.OrderBy("spentAt", firestore.Desc).Documents(ctx), func(snap *firestore.DocumentSnapshot) error {
		var doc expenseDocument
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		e, err := doc.toDomain(snap.Ref.ID)
		if err != nil {
			return err
		}
		if filter.Matches(e) {
			expenses = append(expenses, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// DailyLogRepository implements domain.DailyLogRepository
type DailyLogRepository struct {
	client *firestore.Client
}

// NewDailyLogRepository creates a new DailyLogRepository
func NewDailyLogRepository(client *firestore.Client) *DailyLogRepository {
	return &DailyLogRepository{client: client}
}

// Create stores a daily log
func (r *DailyLogRepository) Create(ctx context.Context, log *domain.DailyLog) error {
	if _, err := r.client.Collection(DailyLogsCollection).Doc(log.ID).Create(ctx, toDailyLogDocument(log)); err != nil {
		return fmt.Errorf("failed to create daily log: %w", err)
	}
	return nil
}

// FindRecent returns up to limit logs, newest date first. Only date is
// ordered in the query; logs sharing a date are ordered by createdAt after
// loading.
func (r *DailyLogRepository) FindRecent(ctx context.Context, limit int) ([]*domain.DailyLog, error) {
	query := r.client.Collection(DailyLogsCollection).OrderBy("date", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []*domain.DailyLog
	err := each(query.Documents(ctx), func(snap *firestore.DocumentSnapshot) error {
		var doc dailyLogDocument
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		l, err := doc.toDomain(snap.Ref.ID)
		if err != nil {
			return err
		}
		logs = append(logs, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	domain.SortDailyLogsNewestFirst(logs)
	return logs, nil
}

// each calls fn for every document of it and stops the iterator
func each(it *firestore.DocumentIterator, fn func(*firestore.DocumentSnapshot) error) error {
	defer it.Stop()
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

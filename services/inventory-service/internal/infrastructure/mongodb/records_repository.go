package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// SupplierRepository implements domain.SupplierRepository
type SupplierRepository struct {
	collection *mongo.Collection
}

// NewSupplierRepository creates a new SupplierRepository
func NewSupplierRepository(db *mongo.Database) *SupplierRepository {
	return &SupplierRepository{collection: db.Collection(SuppliersCollection)}
}

// Create inserts a supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	doc := supplierDocument{
		ID:        supplier.ID,
		Name:      supplier.Name,
		Contact:   supplier.Contact,
		CreatedAt: supplier.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}
	return nil
}

// FindAll lists suppliers by name
func (r *SupplierRepository) FindAll(ctx context.Context) ([]*domain.Supplier, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []supplierDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode suppliers: %w", err)
	}

	suppliers := make([]*domain.Supplier, 0, len(docs))
	for _, d := range docs {
		suppliers = append(suppliers, &domain.Supplier{
			ID:        d.ID,
			Name:      d.Name,
			Contact:   d.Contact,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return suppliers, nil
}

// ExpenseRepository implements domain.ExpenseRepository
type ExpenseRepository struct {
	collection *mongo.Collection
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{collection: db.Collection(ExpensesCollection)}
}

// EnsureIndexes creates the listing indexes
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "spentAt", Value: -1}},
	})
	return err
}

// Create inserts an expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	doc, err := toExpenseDocument(expense)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// FindAll lists expenses passing filter, newest first
func (r *ExpenseRepository) FindAll(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	query := bson.M{}
	spentAt := bson.M{}
	if !filter.Since.IsZero() {
		spentAt["$gte"] = filter.Since
	}
	if !filter.Until.IsZero() {
		spentAt["$lt"] = filter.Until
	}
	if len(spentAt) > 0 {
		query["spentAt"] = spentAt
	}
	if filter.Category != "" {
		query["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.Category) + "$", "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "spentAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []expenseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}

	expenses := make([]*domain.Expense, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// DailyLogRepository implements domain.DailyLogRepository
type DailyLogRepository struct {
	collection *mongo.Collection
}

// NewDailyLogRepository creates a new DailyLogRepository
func NewDailyLogRepository(db *mongo.Database) *DailyLogRepository {
	return &DailyLogRepository{collection: db.Collection(DailyLogsCollection)}
}

// EnsureIndexes creates the listing indexes
func (r *DailyLogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Create inserts a daily log
func (r *DailyLogRepository) Create(ctx context.Context, log *domain.DailyLog) error {
	doc, err := toDailyLogDocument(log)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert daily log: %w", err)
	}
	return nil
}

// FindRecent returns up to limit logs, newest date first
func (r *DailyLogRepository) FindRecent(ctx context.Context, limit int) ([]*domain.DailyLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []dailyLogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode daily logs: %w", err)
	}

	logs := make([]*domain.DailyLog, 0, len(docs))
	for i := range docs {
		l, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	sharedmongo "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
)

// caseInsensitive orders and compares strings ignoring case
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// InventoryRepository implements domain.InventoryRepository. Updates are
// conditioned on the stored version.
type InventoryRepository struct {
	collection *mongo.Collection
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{collection: db.Collection(ItemsCollection)}
}

// EnsureIndexes creates the listing indexes
func (r *InventoryRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetCollation(caseInsensitive)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetCollation(caseInsensitive)},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new item
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	doc, err := toItemDocument(item)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if sharedmongo.IsDuplicateKey(err) {
			return fmt.Errorf("inventory item %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// FindByID loads an item
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var doc itemDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if sharedmongo.IsNoDocuments(err) {
			return nil, domain.NewItemNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return doc.toDomain()
}

// Update writes item only while the stored version equals expectedVersion
// and bumps the version in the same statement
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem, expectedVersion int64) error {
	doc, err := toItemDocument(item)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": item.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"kind":         doc.Kind,
			"name":         doc.Name,
			"unit":         doc.Unit,
			"currentQty":   doc.CurrentQty,
			"reorderLevel": doc.ReorderLevel,
			"avgCost":      doc.AvgCost,
			"sellPrice":    doc.SellPrice,
			"category":     doc.Category,
			"supplierId":   doc.SupplierID,
			"updatedAt":    doc.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.MatchedCount == 0 {
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": item.ID}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to check item: %w", err)
		}
		if exists == 0 {
			return domain.NewItemNotFoundError(item.ID)
		}
		return domain.NewConcurrentWriteError(item.ID, expectedVersion)
	}

	item.Version = expectedVersion + 1
	return nil
}

// FindAll lists items passing filter ordered by name
func (r *InventoryRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]*domain.InventoryItem, error) {
	query := bson.M{}
	if filter.Kind != "" {
		query["kind"] = string(filter.Kind)
	}
	if filter.Search != "" {
		pattern := primitiveRegex(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"category": pattern},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetCollation(caseInsensitive)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	items := make([]*domain.InventoryItem, 0, len(docs))
	for i := range docs {
		item, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewItemNotFoundError(id)
	}
	return nil
}

// primitiveRegex matches term as a case-insensitive substring
func primitiveRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	sharedmongo "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
)

// DeliveryRepository implements domain.DeliveryRepository
type DeliveryRepository struct {
	collection *mongo.Collection
}

// NewDeliveryRepository creates a new DeliveryRepository
func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{collection: db.Collection(DeliveriesCollection)}
}

// EnsureIndexes creates the listing indexes
func (r *DeliveryRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deliveredAt", Value: -1}}},
		{Keys: bson.D{{Key: "deliveredAt", Value: -1}}},
		{Keys: bson.D{{Key: "supplierId", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new delivery
func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	doc, err := toDeliveryDocument(delivery)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert delivery: %w", err)
	}
	return nil
}

// FindByID loads a delivery
func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*domain.Delivery, error) {
	var doc deliveryDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if sharedmongo.IsNoDocuments(err) {
			return nil, domain.NewDeliveryNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	return doc.toDomain()
}

// MarkReceived flips status to received only while it is still pending
func (r *DeliveryRepository) MarkReceived(ctx context.Context, id string, receivedAt time.Time) error {
	filter := bson.M{"_id": id, "status": string(domain.DeliveryPending)}
	update := bson.M{"$set": bson.M{
		"status":     string(domain.DeliveryReceived),
		"receivedAt": receivedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark delivery received: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: delivery %s is %s", domain.ErrInvalidTransition, id, current.Status)
}

// FindAll lists deliveries passing filter, newest delivery date first
func (r *DeliveryRepository) FindAll(ctx context.Context, filter domain.DeliveryFilter) ([]*domain.Delivery, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "deliveredAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []deliveryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode deliveries: %w", err)
	}

	deliveries := make([]*domain.Delivery, 0, len(docs))
	for i := range docs {
		d, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

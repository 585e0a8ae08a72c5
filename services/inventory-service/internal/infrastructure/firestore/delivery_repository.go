package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// DeliveryRepository implements domain.DeliveryRepository
type DeliveryRepository struct {
	client *firestore.Client
}

// NewDeliveryRepository creates a new DeliveryRepository
func NewDeliveryRepository(client *firestore.Client) *DeliveryRepository {
	return &DeliveryRepository{client: client}
}

func (r *DeliveryRepository) col() *firestore.CollectionRef {
	return r.client.Collection(DeliveriesCollection)
}

// Create stores a new delivery
func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	if _, err := r.col().Doc(delivery.ID).Create(ctx, toDeliveryDocument(delivery)); err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}
	return nil
}

// FindByID loads a delivery
func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*domain.Delivery, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.NewDeliveryNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	return decodeDelivery(snap)
}

// MarkReceived flips status to received inside a transaction that requires
// the stored status to be pending
func (r *DeliveryRepository) MarkReceived(ctx context.Context, id string, receivedAt time.Time) error {
	ref := r.col().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return domain.NewDeliveryNotFoundError(id)
		}
		if err != nil {
			return err
		}
		current, err := decodeDelivery(snap)
		if err != nil {
			return err
		}
		if err := current.MarkReceived(receivedAt); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(domain.DeliveryReceived)},
			{Path: "receivedAt", Value: receivedAt},
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrDeliveryNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return err
		}
		return fmt.Errorf("failed to mark delivery received: %w", err)
	}
	return nil
}

// FindAll lists deliveries passing filter, newest delivery date first.
// Status and the id tiebreak are applied after loading so the query only
// needs the single-field deliveredAt index.
func (r *DeliveryRepository) FindAll(ctx context.Context, filter domain.DeliveryFilter) ([]*domain.Delivery, error) {
	it := r.col().OrderBy("deliveredAt", firestore.Desc).Documents(ctx)
	defer it.Stop()

	var deliveries []*domain.Delivery
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list deliveries: %w", err)
		}
		d, err := decodeDelivery(snap)
		if err != nil {
			return nil, err
		}
		if filter.Matches(d) {
			deliveries = append(deliveries, d)
		}
	}

	sort.SliceStable(deliveries, func(a, b int) bool {
		if !deliveries[a].DeliveredAt.Equal(deliveries[b].DeliveredAt) {
			return deliveries[a].DeliveredAt.After(deliveries[b].DeliveredAt)
		}
		return deliveries[a].ID < deliveries[b].ID
	})
	return deliveries, nil
}

func decodeDelivery(snap *firestore.DocumentSnapshot) (*domain.Delivery, error) {
	var doc deliveryDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode delivery %s: %w", snap.Ref.ID, err)
	}
	return doc.toDomain(snap.Ref.ID)
}

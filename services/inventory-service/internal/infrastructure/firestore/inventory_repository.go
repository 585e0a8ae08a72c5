package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// InventoryRepository implements domain.InventoryRepository. Updates run in
// a transaction that compares the stored version.
type InventoryRepository struct {
	client *firestore.Client
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(client *firestore.Client) *InventoryRepository {
	return &InventoryRepository{client: client}
}

func (r *InventoryRepository) col() *firestore.CollectionRef {
	return r.client.Collection(ItemsCollection)
}

// Create stores a new item; it fails if the ID is taken
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	if _, err := r.col().Doc(item.ID).Create(ctx, toItemDocument(item)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("inventory item %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// FindByID loads an item
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.NewItemNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return decodeItem(snap)
}

// Update writes item if the stored version still equals expectedVersion
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem, expectedVersion int64) error {
	ref := r.col().Doc(item.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return domain.NewItemNotFoundError(item.ID)
		}
		if err != nil {
			return err
		}
		var stored itemDocument
		if err := snap.DataTo(&stored); err != nil {
			return err
		}
		if stored.Version != expectedVersion {
			return domain.NewConcurrentWriteError(item.ID, expectedVersion)
		}

		doc := toItemDocument(item)
		doc.Version = expectedVersion + 1
		return tx.Set(ref, doc)
	})
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrConcurrentWrite) {
			return err
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	item.Version = expectedVersion + 1
	return nil
}

// FindAll lists items passing filter ordered by name ignoring case. Kind is
// queried; search is applied after loading.
func (r *InventoryRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]*domain.InventoryItem, error) {
	query := r.col().Query
	if filter.Kind != "" {
		query = query.Where("kind", "==", string(filter.Kind))
	}

	it := query.Documents(ctx)
	defer it.Stop()

	var items []*domain.InventoryItem
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		item, err := decodeItem(snap)
		if err != nil {
			return nil, err
		}
		if filter.Matches(item) {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(a, b int) bool {
		na, nb := strings.ToLower(items[a].Name), strings.ToLower(items[b].Name)
		if na != nb {
			return na < nb
		}
		return items[a].ID < items[b].ID
	})
	return items, nil
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return domain.NewItemNotFoundError(id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func decodeItem(snap *firestore.DocumentSnapshot) (*domain.InventoryItem, error) {
	var doc itemDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", snap.Ref.ID, err)
	}
	return doc.toDomain(snap.Ref.ID)
}

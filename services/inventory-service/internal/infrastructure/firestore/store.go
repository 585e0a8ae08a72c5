// Package firestore stores station records in Cloud Firestore. Decimals are
// kept as strings and item writes are version-checked in transactions.
package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
)

// Config holds Firestore connection settings
type Config struct {
	ProjectID       string `yaml:"projectId"`
	CredentialsFile string `yaml:"credentialsFile"`
}

// NewClient connects to Firestore. Without a credentials file the
// application default credentials are used; FIRESTORE_EMULATOR_HOST is
// honoured by the SDK.
func NewClient(ctx context.Context, cfg Config) (*firestore.Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var opts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.CredentialsFile); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client (project=%s): %w", cfg.ProjectID, err)
	}
	return client, nil
}

// Store bundles the Firestore repositories of one project
type Store struct {
	client     *firestore.Client
	Items      *InventoryRepository
	Deliveries *DeliveryRepository
	Suppliers  *SupplierRepository
	Expenses   *ExpenseRepository
	DailyLogs  *DailyLogRepository
}

// NewStore creates the repositories for client
func NewStore(client *firestore.Client) *Store {
	return &Store{
		client:     client,
		Items:      NewInventoryRepository(client),
		Deliveries: NewDeliveryRepository(client),
		Suppliers:  NewSupplierRepository(client),
		Expenses:   NewExpenseRepository(client),
		DailyLogs:  NewDailyLogRepository(client),
	}
}

// HealthCheck queries at most one item to verify connectivity
func (s *Store) HealthCheck(ctx context.Context) error {
	it := s.client.Collection(ItemsCollection).Limit(1).Documents(ctx)
	defer it.Stop()
	_, err := it.GetAll()
	return err
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

// Repositories returns the store as domain repositories
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Inventory:  s.Items,
		Deliveries: s.Deliveries,
		Suppliers:  s.Suppliers,
		Expenses:   s.Expenses,
		DailyLogs:  s.DailyLogs,
	}
}

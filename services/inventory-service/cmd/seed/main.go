// Command seed loads the station demo data into the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/events"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/firestore"
	mongoStore "github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/mongodb"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
)

const serviceName = "inventory-seed"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repos, closeStore, err := openStore(ctx, getEnv("STORE_DRIVER", "mongodb"))
	if err != nil {
		logger.WithError(err).Error("Failed to open store")
		os.Exit(1)
	}
	defer closeStore()

	publisher := events.NewLogEventPublisher(logger)
	m := metrics.New(metrics.DefaultConfig(serviceName))
	ledger := application.NewLedgerService(repos.Inventory, publisher, m, logger, application.DefaultLedgerConfig())
	records := application.NewRecordsService(repos, logger)

	result, err := application.NewSeeder(ledger, records).Seed(ctx)
	if err != nil {
		logger.WithError(err).Error("Seeding failed")
		closeStore()
		os.Exit(1)
	}
	if result.Skipped {
		logger.Info("Store already has data; nothing seeded")
		return
	}
	logger.Info("Seeded demo data",
		"suppliers", result.Suppliers,
		"items", result.Items,
		"expenses", result.Expenses,
	)
}

func openStore(ctx context.Context, driver string) (domain.Repositories, func(), error) {
	switch driver {
	case "mongodb":
		config := mongodb.DefaultConfig()
		config.URI = getEnv("MONGODB_URI", config.URI)
		config.Database = getEnv("MONGODB_DATABASE", config.Database)

		client, err := mongodb.NewClient(ctx, config)
		if err != nil {
			return domain.Repositories{}, nil, err
		}
		store := mongoStore.NewStore(client.Database())
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return domain.Repositories{}, nil, err
		}
		return store.Repositories(), func() { _ = client.Close(context.Background()) }, nil

	case "firestore":
		client, err := firestore.NewClient(ctx, firestore.Config{
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		})
		if err != nil {
			return domain.Repositories{}, nil, err
		}
		store := firestore.NewStore(client)
		return store.Repositories(), func() { _ = store.Close() }, nil

	default:
		return domain.Repositories{}, nil, fmt.Errorf("cannot seed store driver %q; use mongodb or firestore", driver)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

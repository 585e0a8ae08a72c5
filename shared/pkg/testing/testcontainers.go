package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	sharedmongo "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
)

// MongoDBContainer wraps a testcontainers MongoDB instance
type MongoDBContainer struct {
	Container *mongodb.MongoDBContainer
	URI       string
}

// NewMongoDBContainer starts a disposable MongoDB
func NewMongoDBContainer(ctx context.Context) (*MongoDBContainer, error) {
	mongoContainer, err := mongodb.Run(ctx,
		"mongo:6",
		mongodb.WithUsername("test"),
		mongodb.WithPassword("test"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb container: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		_ = mongoContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MongoDBContainer{
		Container: mongoContainer,
		URI:       uri,
	}, nil
}

// Close terminates the MongoDB container
func (m *MongoDBContainer) Close(ctx context.Context) error {
	if m.Container != nil {
		return m.Container.Terminate(ctx)
	}
	return nil
}

// NewClient connects a shared client to the container using the named database
func (m *MongoDBContainer) NewClient(ctx context.Context, database string) (*sharedmongo.Client, error) {
	cfg := sharedmongo.DefaultConfig()
	cfg.URI = m.URI
	cfg.Database = database
	cfg.ConnectTimeout = 10 * time.Second
	cfg.MinPoolSize = 0
	return sharedmongo.NewClient(ctx, cfg)
}

// StartMongo starts a container for t, skipping in short mode, and
// registers cleanup for both the client and the container.
func StartMongo(t *testing.T, database string) *sharedmongo.Client {
	t.Helper()
	SkipIfShort(t)

	ctx, cancel := CreateTestContext(2 * time.Minute)
	defer cancel()

	container, err := NewMongoDBContainer(ctx)
	if err != nil {
		t.Fatalf("start mongodb container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	client, err := container.NewClient(ctx, database)
	if err != nil {
		t.Fatalf("connect mongodb container: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	return client
}

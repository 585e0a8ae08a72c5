package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/api/handlers"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/events"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/firestore"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/instrumented"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/memory"
	mongoStore "github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/mongodb"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/cloudevents"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/kafka"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/metrics"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/middleware"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/tracing"
)

const serviceName = "inventory-service"

func main() {
	config, err := loadConfig(os.Getenv("CONFIG_FILE"), os.Getenv)

	logConfig := logging.DefaultConfig(serviceName)
	if config != nil {
		logConfig.Level = logging.LogLevel(config.LogLevel)
		logConfig.Environment = config.Environment
	}
	logger := logging.New(logConfig)
	logger.SetDefault()

	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.WithError(err).Error("Service stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config, logger *logging.Logger) error {
	logger.Info("Starting inventory-service API", "storeDriver", config.StoreDriver, "kafka", config.KafkaEnabled)

	tracerProvider, err := tracing.Initialize(ctx, config.Tracing)
	if err != nil {
		// Continue without tracing
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		if config.Tracing.Enabled {
			logger.Info("Tracing initialized", "endpoint", config.Tracing.OTLPEndpoint)
		}
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	svc, err := newApp(ctx, config, m, logger)
	if err != nil {
		return err
	}
	defer svc.close()

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      svc.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", config.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

// app is the wired service: router plus the resources to release on exit
type app struct {
	router  *gin.Engine
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, config *Config, m *metrics.Metrics, logger *logging.Logger) (*app, error) {
	a := &app{}

	store, err := openStore(ctx, config, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)
	repos := instrumented.Wrap(store.repos, config.StoreDriver, m, logger)

	publisher, closePublisher := newPublisher(config, m, logger)
	a.closers = append(a.closers, closePublisher)

	ledger := application.NewLedgerService(repos.Inventory, publisher, m, logger, config.Ledger)
	deliveries := application.NewDeliveryService(repos.Deliveries, repos.Inventory, publisher, logger)
	reconciliation := application.NewReconciliationService(deliveries, ledger, publisher, m, logger)
	reports := application.NewReportService(repos, m, logger)
	records := application.NewRecordsService(repos, logger)

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.ready(checkCtx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Items:      handlers.NewItemHandler(ledger, logger),
		Deliveries: handlers.NewDeliveryHandler(deliveries, reconciliation, logger),
		Reports:    handlers.NewReportHandler(reports, logger),
		Records:    handlers.NewRecordsHandler(records, logger),
	})

	a.router = router
	return a, nil
}

// openedStore is a connected backend
type openedStore struct {
	repos domain.Repositories
	ready func(context.Context) error
	close func()
}

func openStore(ctx context.Context, config *Config, logger *logging.Logger) (*openedStore, error) {
	switch config.StoreDriver {
	case DriverMongoDB:
		client, err := mongodb.NewClient(ctx, config.MongoDB)
		if err != nil {
			return nil, err
		}
		store := mongoStore.NewStore(client.Database())
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)
		return &openedStore{
			repos: store.Repositories(),
			ready: client.HealthCheck,
			close: func() { _ = client.Close(context.Background()) },
		}, nil

	case DriverFirestore:
		client, err := firestore.NewClient(ctx, config.Firestore)
		if err != nil {
			return nil, err
		}
		store := firestore.NewStore(client)
		logger.Info("Connected to Firestore", "project", config.Firestore.ProjectID)
		return &openedStore{
			repos: store.Repositories(),
			ready: store.HealthCheck,
			close: func() { _ = store.Close() },
		}, nil

	default:
		logger.Warn("Using in-memory store; records are lost on restart")
		return &openedStore{
			repos: memory.NewStore().Repositories(),
			ready: func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}
}

// newPublisher returns the Kafka publisher chain when Kafka is enabled and a
// logging publisher otherwise
func newPublisher(config *Config, m *metrics.Metrics, logger *logging.Logger) (domain.EventPublisher, func()) {
	if !config.KafkaEnabled {
		return events.NewLogEventPublisher(logger), func() {}
	}

	producer := kafka.NewCircuitBreakerProducer(
		kafka.NewInstrumentedProducer(kafka.NewProducer(config.Kafka), m, logger),
		m,
		logger,
	)
	factory := cloudevents.NewEventFactory(cloudevents.SourceInventory, config.StationID)
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	publisher := events.NewKafkaEventPublisher(producer, factory, logger)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close Kafka producer")
		}
	}
}

package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

var tracer = otel.Tracer("github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application")

func utcNow() time.Time {
	return time.Now().UTC()
}

// publishEvents publishes events after the writes they describe have been
// committed. A publish failure is logged and never undoes the write.
func publishEvents(ctx context.Context, publisher domain.EventPublisher, logger *logging.Logger, events []domain.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.PublishAll(ctx, events); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Failed to publish domain events", "count", len(events))
	}
}

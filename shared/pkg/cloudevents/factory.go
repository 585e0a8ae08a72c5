package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

// EventFactory creates CloudEvents for a single source and station
type EventFactory struct {
	source    string
	stationID string
	now       func() time.Time
}

// NewEventFactory creates a new EventFactory
func NewEventFactory(source, stationID string) *EventFactory {
	return &EventFactory{
		source:    source,
		stationID: stationID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateEvent builds an event, carrying correlation and trace context from ctx
func (f *EventFactory) CreateEvent(ctx context.Context, eventType, subject string, data interface{}) *StationCloudEvent {
	event := &StationCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now(),
		DataContentType: "application/json",
		Data:            data,
		StationID:       f.stationID,
	}

	if v, ok := ctx.Value(logging.CorrelationIDKey).(string); ok {
		event.CorrelationID = v
	}

	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	event.TraceParent = carrier.Get("traceparent")
	event.TraceState = carrier.Get("tracestate")

	return event
}

package cloudevents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

func TestCreateEvent(t *testing.T) {
	f := NewEventFactory(SourceInventory, "TMD-01")
	fixed := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-7")
	event := f.CreateEvent(ctx, DeliveryReceived, "delivery/DEL-1", map[string]string{"deliveryId": "DEL-1"})

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, DeliveryReceived, event.Type)
	assert.Equal(t, SourceInventory, event.Source)
	assert.Equal(t, "delivery/DEL-1", event.Subject)
	assert.Equal(t, fixed, event.Time)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "corr-7", event.CorrelationID)
	assert.Empty(t, event.TraceParent)
	assert.Equal(t, map[string]string{ExtStationID: "TMD-01", ExtCorrelationID: "corr-7"}, event.Extensions())
}

func TestCreateEventCarriesTraceParent(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	event := NewEventFactory(SourceInventory, "").CreateEvent(ctx, StockReceived, "item/ITM-1", nil)

	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", event.TraceParent)
}

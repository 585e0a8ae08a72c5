package events

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/cloudevents"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/kafka"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/logging"
)

var testNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

type published struct {
	topic string
	event *cloudevents.StationCloudEvent
}

type fakeProducer struct {
	sent   []published
	failOn string
	closed bool
}

func (p *fakeProducer) PublishEvent(_ context.Context, topic string, event *cloudevents.StationCloudEvent) error {
	if event.Type == p.failOn {
		return errors.New("broker down")
	}
	p.sent = append(p.sent, published{topic: topic, event: event})
	return nil
}

func (p *fakeProducer) Close() error {
	p.closed = true
	return nil
}

func testLogger(w io.Writer) *logging.Logger {
	cfg := logging.DefaultConfig("inventory-service")
	cfg.Output = w
	return logging.New(cfg)
}

func TestKafkaPublisherRoutesByAggregate(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewKafkaEventPublisher(producer, cloudevents.NewEventFactory(cloudevents.SourceInventory, "station-1"), testLogger(io.Discard))

	err := publisher.PublishAll(context.Background(), []domain.DomainEvent{
		&domain.StockReceivedEvent{ItemID: "ITM-1", DeliveryID: "DLV-1", ReceivedAt: testNow},
		&domain.DeliveryReceivedEvent{DeliveryID: "DLV-1", ReceivedAt: testNow},
	})
	require.NoError(t, err)

	require.Len(t, producer.sent, 2)
	assert.Equal(t, kafka.Topics.InventoryEvents, producer.sent[0].topic)
	assert.Equal(t, cloudevents.StockReceived, producer.sent[0].event.Type)
	assert.Equal(t, "inventory/ITM-1", producer.sent[0].event.Subject)
	assert.Equal(t, "station-1", producer.sent[0].event.StationID)

	assert.Equal(t, kafka.Topics.DeliveryEvents, producer.sent[1].topic)
	assert.Equal(t, "delivery/DLV-1", producer.sent[1].event.Subject)

	require.NoError(t, publisher.Close())
	assert.True(t, producer.closed)
}

func TestKafkaPublisherAttemptsEveryEvent(t *testing.T) {
	producer := &fakeProducer{failOn: cloudevents.StockReceived}
	publisher := NewKafkaEventPublisher(producer, cloudevents.NewEventFactory(cloudevents.SourceInventory, "station-1"), testLogger(io.Discard))

	err := publisher.PublishAll(context.Background(), []domain.DomainEvent{
		&domain.StockReceivedEvent{ItemID: "ITM-1", ReceivedAt: testNow},
		&domain.LowStockDetectedEvent{ItemID: "ITM-1", DetectedAt: testNow},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ITM-1")
	require.Len(t, producer.sent, 1)
	assert.Equal(t, cloudevents.LowStock, producer.sent[0].event.Type)
}

func TestLogPublisherWritesEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	publisher := NewLogEventPublisher(testLogger(buf))

	err := publisher.PublishAll(context.Background(), []domain.DomainEvent{
		&domain.ItemDeletedEvent{ItemID: "ITM-9", DeletedAt: testNow},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), cloudevents.ItemDeleted)
	assert.Contains(t, buf.String(), "ITM-9")
	assert.Contains(t, buf.String(), kafka.Topics.InventoryEvents)
}

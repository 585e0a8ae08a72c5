package cloudevents

import (
	"time"
)

// Event types emitted by the station services
const (
	// Inventory events
	ItemCreated   = "station.inventory.item-created"
	ItemDeleted   = "station.inventory.item-deleted"
	StockReceived = "station.inventory.stock-received"
	StockAdjusted = "station.inventory.adjusted"
	LowStock      = "station.inventory.low-stock"

	// Delivery events
	DeliveryCreated           = "station.delivery.created"
	DeliveryReceived          = "station.delivery.received"
	DeliveryPartiallyReceived = "station.delivery.partially-received"
)

// Event sources
const (
	SourceInventory = "/station/inventory-service"
)

// StationCloudEvent is a CloudEvents v1.0 structured-mode event
type StationCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Station extensions
	StationID     string `json:"stationid,omitempty"`
	CorrelationID string `json:"stationcorrelationid,omitempty"`

	// W3C trace context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

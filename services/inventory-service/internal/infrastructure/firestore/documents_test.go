package firestore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	sharedtesting "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/testing"
)

var testNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func TestItemDocumentKeepsDecimalPrecision(t *testing.T) {
	item := &domain.InventoryItem{
		ID:           "ITM-1",
		Kind:         domain.KindFuel,
		Name:         "Super 98",
		Unit:         domain.UnitLitres,
		CurrentQty:   decimal.RequireFromString("12500.1234"),
		ReorderLevel: decimal.NewFromInt(5000),
		AvgCost:      decimal.RequireFromString("2.8543"),
		SellPrice:    decimal.RequireFromString("3.15"),
		Category:     "Fuel",
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
		Version:      4,
	}

	doc := toItemDocument(item)
	assert.Equal(t, "12500.1234", doc.CurrentQty)

	back, err := doc.toDomain("ITM-1")
	require.NoError(t, err)
	sharedtesting.AssertDecimal(t, "12500.1234", back.CurrentQty)
	sharedtesting.AssertDecimal(t, "2.8543", back.AvgCost)
	assert.Equal(t, int64(4), back.Version)
	assert.Equal(t, "ITM-1", back.ID)
}

func TestItemDocumentRejectsBadDecimal(t *testing.T) {
	doc := &itemDocument{CurrentQty: "lots", ReorderLevel: "1", AvgCost: "1", SellPrice: "1"}

	_, err := doc.toDomain("ITM-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currentQty")
	assert.Contains(t, err.Error(), "ITM-9")
}

func TestDeliveryDocumentRoundTrip(t *testing.T) {
	d, err := domain.NewDelivery(domain.NewDeliveryParams{
		ID:          "DLV-1",
		SupplierID:  "SUP-1",
		ReferenceNo: "INV-77",
		DeliveredAt: testNow,
		Items: []domain.NewLineItem{
			{InventoryItemID: "ITM-1", Qty: decimal.NewFromInt(1000), UnitCost: decimal.RequireFromString("2.9")},
		},
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, d.MarkReceived(testNow.Add(time.Hour)))

	back, err := toDeliveryDocument(d).toDomain("DLV-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryReceived, back.Status)
	require.NotNil(t, back.ReceivedAt)
	assert.Equal(t, testNow.Add(time.Hour), *back.ReceivedAt)
	require.Len(t, back.Items, 1)
	sharedtesting.AssertDecimal(t, "2900", back.Items[0].LineTotal)
	sharedtesting.AssertDecimal(t, "2900", back.TotalCost)
}

func TestDailyLogDocumentRoundTrip(t *testing.T) {
	log, err := domain.NewDailyLog("LOG-1", "2024-05-01",
		decimal.NewFromInt(500), decimal.RequireFromString("1820.25"), "quiet shift",
		[]domain.Incident{{Time: "14:10", Description: "pump 3 jammed"}}, testNow)
	require.NoError(t, err)

	back, err := toDailyLogDocument(log).toDomain("LOG-1")
	require.NoError(t, err)
	sharedtesting.AssertDecimal(t, "1820.25", back.ClosingCash)
	assert.Equal(t, log.Incidents, back.Incidents)
}

package firestore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	sharedtesting "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/testing"
)

// StoreEmulatorTestSuite runs against the Firestore emulator named by
// FIRESTORE_EMULATOR_HOST. Document IDs are unique per run.
type StoreEmulatorTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	run   string
}

func TestStoreEmulator(t *testing.T) {
	sharedtesting.SkipIfShort(t)
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	suite.Run(t, new(StoreEmulatorTestSuite))
}

func (s *StoreEmulatorTestSuite) SetupSuite() {
	s.ctx = context.Background()
	client, err := NewClient(s.ctx, Config{ProjectID: "station-test"})
	s.Require().NoError(err)
	s.store = NewStore(client)
	s.run = uuid.NewString()[:8]
}

func (s *StoreEmulatorTestSuite) TearDownSuite() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreEmulatorTestSuite) id(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, s.run, uuid.NewString()[:8])
}

func (s *StoreEmulatorTestSuite) newItem(name string) *domain.InventoryItem {
	item, err := domain.NewInventoryItem(domain.NewItemParams{
		ID:           s.id("ITM"),
		Kind:         domain.KindFuel,
		Name:         name,
		Unit:         domain.UnitLitres,
		CurrentQty:   decimal.NewFromInt(100),
		ReorderLevel: decimal.NewFromInt(10),
		AvgCost:      decimal.NewFromInt(10),
		Category:     "Fuel",
	}, testNow)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Items.Create(s.ctx, item))
	return item
}

func (s *StoreEmulatorTestSuite) TestHealthCheck() {
	s.NoError(s.store.HealthCheck(s.ctx))
}

func (s *StoreEmulatorTestSuite) TestItemUpdateIsVersionChecked() {
	item := s.newItem("Diesel " + s.run)

	first, err := s.store.Items.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	stale, err := s.store.Items.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)

	s.Require().NoError(first.ApplyReceipt(decimal.NewFromInt(50), decimal.NewFromInt(16), testNow))
	s.Require().NoError(s.store.Items.Update(s.ctx, first, first.Version))
	s.Equal(int64(2), first.Version)

	err = s.store.Items.Update(s.ctx, stale, stale.Version)
	s.ErrorIs(err, domain.ErrConcurrentWrite)

	loaded, err := s.store.Items.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	sharedtesting.AssertDecimal(s.T(), "150", loaded.CurrentQty)
	sharedtesting.AssertDecimal(s.T(), "12", loaded.AvgCost)

	_, err = s.store.Items.FindByID(s.ctx, s.id("ITM"))
	s.ErrorIs(err, domain.ErrItemNotFound)
}

func (s *StoreEmulatorTestSuite) TestItemSearchAndDelete() {
	item := s.newItem("Special 95 " + s.run)

	found, err := s.store.Items.FindAll(s.ctx, domain.ItemFilter{Kind: domain.KindFuel, Search: "special 95 " + s.run})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(item.ID, found[0].ID)

	s.Require().NoError(s.store.Items.Delete(s.ctx, item.ID))
	s.ErrorIs(s.store.Items.Delete(s.ctx, item.ID), domain.ErrItemNotFound)
}

func (s *StoreEmulatorTestSuite) TestDeliveryMarkReceivedOnce() {
	d, err := domain.NewDelivery(domain.NewDeliveryParams{
		ID:         s.id("DLV"),
		SupplierID: "SUP-1",
		Items: []domain.NewLineItem{
			{InventoryItemID: "ITM-1", Qty: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
		},
	}, testNow)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Deliveries.Create(s.ctx, d))

	s.Require().NoError(s.store.Deliveries.MarkReceived(s.ctx, d.ID, testNow.Add(time.Hour)))
	s.ErrorIs(s.store.Deliveries.MarkReceived(s.ctx, d.ID, testNow.Add(2*time.Hour)), domain.ErrInvalidTransition)
	s.ErrorIs(s.store.Deliveries.MarkReceived(s.ctx, s.id("DLV"), testNow), domain.ErrDeliveryNotFound)

	loaded, err := s.store.Deliveries.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.DeliveryReceived, loaded.Status)
	s.Require().NotNil(loaded.ReceivedAt)
	s.Equal(testNow.Add(time.Hour), *loaded.ReceivedAt)
}

func (s *StoreEmulatorTestSuite) TestDeliveryStatusFilter() {
	newDelivery := func(deliveredAt time.Time) *domain.Delivery {
		d, err := domain.NewDelivery(domain.NewDeliveryParams{
			ID:          s.id("DLV"),
			SupplierID:  "SUP-" + s.run,
			DeliveredAt: deliveredAt,
			Items: []domain.NewLineItem{
				{InventoryItemID: "ITM-1", Qty: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)},
			},
		}, testNow)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Deliveries.Create(s.ctx, d))
		return d
	}
	older := newDelivery(testNow)
	newer := newDelivery(testNow.Add(time.Hour))
	received := newDelivery(testNow.Add(2 * time.Hour))
	s.Require().NoError(s.store.Deliveries.MarkReceived(s.ctx, received.ID, testNow.Add(3*time.Hour)))

	ids := func(status domain.DeliveryStatus) []string {
		found, err := s.store.Deliveries.FindAll(s.ctx, domain.DeliveryFilter{Status: status})
		s.Require().NoError(err)
		var out []string
		for _, d := range found {
			if d.SupplierID == "SUP-"+s.run {
				s.Equal(status, d.Status)
				out = append(out, d.ID)
			}
		}
		return out
	}

	s.Equal([]string{newer.ID, older.ID}, ids(domain.DeliveryPending))
	s.Equal([]string{received.ID}, ids(domain.DeliveryReceived))
}

func (s *StoreEmulatorTestSuite) TestDailyLogsSameDateNewestFirst() {
	var created []string
	for i := 0; i < 2; i++ {
		log, err := domain.NewDailyLog(s.id("LOG"), "2099-01-01", decimal.NewFromInt(500), decimal.NewFromInt(900), "", nil, testNow.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(err)
		s.Require().NoError(s.store.DailyLogs.Create(s.ctx, log))
		created = append(created, log.ID)
	}

	logs, err := s.store.DailyLogs.FindRecent(s.ctx, 0)
	s.Require().NoError(err)
	var ours []string
	for _, log := range logs {
		if strings.Contains(log.ID, s.run) {
			ours = append(ours, log.ID)
		}
	}
	s.Equal([]string{created[1], created[0]}, ours)
}

func (s *StoreEmulatorTestSuite) TestExpenseCategoryFilter() {
	category := "Utilities-" + s.run
	e, err := domain.NewExpense(s.id("EXP"), testNow, category, decimal.NewFromInt(450), domain.PaymentBank, "")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Expenses.Create(s.ctx, e))

	start, end := domain.DayBounds(testNow)
	found, err := s.store.Expenses.FindAll(s.ctx, domain.ExpenseFilter{Since: start, Until: end, Category: category})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	sharedtesting.AssertDecimal(s.T(), "450", found[0].Amount)
}

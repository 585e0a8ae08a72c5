package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/errors"
	sharedtesting "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/testing"
)

func TestSuppliers(t *testing.T) {
	f := newFixture(t, 0)

	created, err := f.records.CreateSupplier(context.Background(), CreateSupplierCommand{Name: "Emirates Bulk Fuels", Contact: "+971 4 000 0000"})
	require.NoError(t, err)
	assert.Contains(t, created.ID, "SUP-")
	_, err = f.records.CreateSupplier(context.Background(), CreateSupplierCommand{Name: "Al Marai Snacks"})
	require.NoError(t, err)

	_, err = f.records.CreateSupplier(context.Background(), CreateSupplierCommand{Name: "   "})
	requireAppError(t, err, errors.CodeValidationError)

	suppliers, err := f.records.ListSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Al Marai Snacks", suppliers[0].Name)
}

func TestExpenses(t *testing.T) {
	f := newFixture(t, 0)

	tests := []CreateExpenseCommand{
		{SpentAt: testNow.Add(-48 * time.Hour), Category: "Utilities", Amount: dec("450"), Method: "bank", Notes: "Monthly DEWA bill"},
		{SpentAt: testNow.Add(-time.Hour), Category: "Maintenance", Amount: dec("120.5"), Method: "cash"},
		{Category: "Utilities", Amount: dec("30"), Method: "card"},
	}
	for _, cmd := range tests {
		_, err := f.records.CreateExpense(context.Background(), cmd)
		require.NoError(t, err)
	}

	list, err := f.records.ListExpenses(context.Background(), ListExpensesQuery{})
	require.NoError(t, err)
	require.Len(t, list.Expenses, 3)
	assert.Equal(t, testNow, list.Expenses[0].SpentAt)
	assert.Equal(t, "Monthly DEWA bill", list.Expenses[2].Notes)
	sharedtesting.AssertDecimal(t, "600.5", list.Total)
	sharedtesting.AssertDecimal(t, "480", list.ByCategory["Utilities"])
	sharedtesting.AssertDecimal(t, "120.5", list.ByCategory["Maintenance"])

	utilities, err := f.records.ListExpenses(context.Background(), ListExpensesQuery{Category: "utilities", Limit: 1})
	require.NoError(t, err)
	require.Len(t, utilities.Expenses, 1)
	sharedtesting.AssertDecimal(t, "30", utilities.Total)
}

func TestCreateExpenseValidation(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.records.CreateExpense(context.Background(), CreateExpenseCommand{Category: "Fuel", Amount: dec("-1"), Method: "cash"})
	requireAppError(t, err, errors.CodeValidationError)

	_, err = f.records.CreateExpense(context.Background(), CreateExpenseCommand{Category: "Fuel", Amount: dec("1"), Method: "cheque"})
	requireAppError(t, err, errors.CodeValidationError)
}

func TestDailyLogs(t *testing.T) {
	f := newFixture(t, 0)

	for day := 1; day <= 9; day++ {
		_, err := f.records.CreateDailyLog(context.Background(), CreateDailyLogCommand{
			Date:        fmt.Sprintf("2024-04-%02d", day),
			OpeningCash: dec("500"),
			ClosingCash: dec("1850.25"),
			Incidents:   []IncidentCommand{{Time: "14:05", Description: "Pump 3 card reader offline"}},
		})
		require.NoError(t, err)
	}

	logs, err := f.records.ListDailyLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, DefaultDailyLogLimit)
	assert.Equal(t, "2024-04-09", logs[0].Date)
	assert.Equal(t, "2024-04-03", logs[6].Date)
	require.Len(t, logs[0].Incidents, 1)
	assert.Equal(t, "14:05", logs[0].Incidents[0].Time)

	two, err := f.records.ListDailyLogs(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	_, err = f.records.CreateDailyLog(context.Background(), CreateDailyLogCommand{Date: "09/04/2024"})
	requireAppError(t, err, errors.CodeValidationError)
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	sharedtesting "github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/testing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name     string
		q0, c0   string
		qty, uc  string
		wantQty  string
		wantCost string
	}{
		{"from empty", "0", "0", "10", "5", "10", "5"},
		{"delivery onto stock", "100", "10", "50", "16", "150", "12"},
		{"second line same item", "10", "5", "10", "15", "20", "10"},
		{"free goods dilute cost", "10", "4", "10", "0", "20", "2"},
		{"rounds to four places", "3", "1", "3", "2", "6", "1.5"},
		{"repeating fraction", "1", "1", "2", "0", "3", "0.3333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q1, c1 := WeightedAverage(dec(tt.q0), dec(tt.c0), dec(tt.qty), dec(tt.uc))
			sharedtesting.AssertDecimal(t, tt.wantQty, q1)
			sharedtesting.AssertDecimal(t, tt.wantCost, c1)
		})
	}
}

func TestWeightedAverageIsOrderIndependent(t *testing.T) {
	receipts := []struct{ qty, cost string }{
		{"12.5", "2.85"},
		{"7", "3.10"},
		{"40.25", "2.70"},
		{"3", "9.99"},
	}
	tolerance := dec("0.0001")

	apply := func(order []int) (decimal.Decimal, decimal.Decimal) {
		q, c := dec("5"), dec("2.5")
		for _, i := range order {
			q, c = WeightedAverage(q, c, dec(receipts[i].qty), dec(receipts[i].cost))
		}
		return q, c
	}

	// exact value: (5*2.5 + Σ qty*cost) / (5 + Σ qty)
	wantQ, wantC := dec("67.75"), dec("208.47").Div(dec("67.75"))

	for _, order := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}} {
		q, c := apply(order)
		assert.True(t, q.Equal(wantQ), "qty for order %v: %s", order, q)
		sharedtesting.AssertDecimalWithin(t, wantC, c, tolerance, "cost for order %v", order)
	}
}

func TestLineTotal(t *testing.T) {
	sharedtesting.AssertDecimal(t, "28500", LineTotal(dec("10000"), dec("2.85")))
	sharedtesting.AssertDecimal(t, "0.3333", LineTotal(dec("0.33333"), dec("1")))
}

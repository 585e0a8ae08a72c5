package domain

import "github.com/shopspring/decimal"

// Precision is the number of fractional digits kept on persisted
// quantities and money amounts
const Precision int32 = 4

// Round rounds d half away from zero to Precision digits
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// WeightedAverage returns the quantity and unit cost after receiving qty
// units at unitCost into a position of q0 units held at average cost c0.
//
//	q1 = q0 + qty
//	c1 = (q0*c0 + qty*unitCost) / q1
//
// Callers must pass qty already rounded to Precision and positive, with
// q0 >= 0, so q1 is never zero and always exceeds q0.
func WeightedAverage(q0, c0, qty, unitCost decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	q1 := q0.Add(qty)
	value := q0.Mul(c0).Add(qty.Mul(unitCost))
	return Round(q1), Round(value.Div(q1))
}

// LineTotal returns qty * unitCost rounded to Precision
func LineTotal(qty, unitCost decimal.Decimal) decimal.Decimal {
	return Round(qty.Mul(unitCost))
}

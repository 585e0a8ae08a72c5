package testing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// SkipIfShort skips tests that need containers when running with -short
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// CreateTestContext creates a context with a timeout for tests
func CreateTestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// AssertDecimal asserts that actual equals the decimal literal expected
func AssertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	want := decimal.RequireFromString(expected)
	if want.Equal(actual) {
		return true
	}
	return assert.Fail(t, "decimals differ: expected "+want.String()+", actual "+actual.String(), msgAndArgs...)
}

// AssertDecimalWithin asserts |expected - actual| <= tolerance
func AssertDecimalWithin(t *testing.T, expected, actual, tolerance decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	if expected.Sub(actual).Abs().LessThanOrEqual(tolerance) {
		return true
	}
	return assert.Fail(t, "decimals differ beyond "+tolerance.String()+": expected "+expected.String()+", actual "+actual.String(), msgAndArgs...)
}

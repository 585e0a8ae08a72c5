package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor deliveries are received from
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
}

// NewSupplier creates a supplier
func NewSupplier(id, name, contact string, now time.Time) (*Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: supplier name is required", ErrInvalidRecord)
	}
	return &Supplier{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Contact:   strings.TrimSpace(contact),
		CreatedAt: now,
	}, nil
}

// PaymentMethod is how an expense was paid
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentBank PaymentMethod = "bank"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBank:
		return true
	default:
		return false
	}
}

// Expense is money paid out by the station
type Expense struct {
	ID       string
	SpentAt  time.Time
	Category string
	Amount   decimal.Decimal
	Method   PaymentMethod
	Notes    string
}

// NewExpense validates and creates an expense
func NewExpense(id string, spentAt time.Time, category string, amount decimal.Decimal, method PaymentMethod, notes string) (*Expense, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: expense category is required", ErrInvalidRecord)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: expense amount %s", ErrInvalidAmount, amount)
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidRecord, method)
	}
	return &Expense{
		ID:       id,
		SpentAt:  spentAt.UTC(),
		Category: strings.TrimSpace(category),
		Amount:   Round(amount),
		Method:   method,
		Notes:    notes,
	}, nil
}

// ExpenseFilter narrows an expense listing
type ExpenseFilter struct {
	Since    time.Time
	Until    time.Time
	Category string
}

// Matches reports whether e passes the filter. Until is exclusive.
func (f ExpenseFilter) Matches(e *Expense) bool {
	if !f.Since.IsZero() && e.SpentAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !e.SpentAt.Before(f.Until) {
		return false
	}
	return f.Category == "" || strings.EqualFold(e.Category, f.Category)
}

// ExpenseSummary is the total spent and its split by category
type ExpenseSummary struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

// SummarizeExpenses totals expenses overall and per category
func SummarizeExpenses(expenses []*Expense) ExpenseSummary {
	summary := ExpenseSummary{Total: decimal.Zero, ByCategory: make(map[string]decimal.Decimal)}
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)
		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.Amount)
	}
	return summary
}

// SortExpensesNewestFirst orders expenses by spentAt descending
func SortExpensesNewestFirst(expenses []*Expense) {
	sort.SliceStable(expenses, func(a, b int) bool {
		return expenses[a].SpentAt.After(expenses[b].SpentAt)
	})
}

// DayBounds returns the start of t's UTC day and the start of the next
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Incident is a notable event during a shift
type Incident struct {
	Time        string
	Description string
}

// DailyLog is the cash and incident record of one business day
type DailyLog struct {
	ID          string
	Date        string
	OpeningCash decimal.Decimal
	ClosingCash decimal.Decimal
	Notes       string
	Incidents   []Incident
	CreatedAt   time.Time
}

// NewDailyLog validates and creates a daily log. date is YYYY-MM-DD.
func NewDailyLog(id, date string, openingCash, closingCash decimal.Decimal, notes string, incidents []Incident, now time.Time) (*DailyLog, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidRecord, date)
	}
	if openingCash.IsNegative() || closingCash.IsNegative() {
		return nil, fmt.Errorf("%w: cash figures must not be negative", ErrInvalidAmount)
	}
	for i, inc := range incidents {
		if strings.TrimSpace(inc.Description) == "" {
			return nil, fmt.Errorf("%w: incident %d has no description", ErrInvalidRecord, i)
		}
	}
	return &DailyLog{
		ID:          id,
		Date:        date,
		OpeningCash: Round(openingCash),
		ClosingCash: Round(closingCash),
		Notes:       notes,
		Incidents:   incidents,
		CreatedAt:   now,
	}, nil
}

// SortDailyLogsNewestFirst orders logs by date descending. YYYY-MM-DD sorts
// lexically.
func SortDailyLogsNewestFirst(logs []*DailyLog) {
	sort.SliceStable(logs, func(a, b int) bool {
		if logs[a].Date != logs[b].Date {
			return logs[a].Date > logs[b].Date
		}
		return logs[a].CreatedAt.After(logs[b].CreatedAt)
	})
}

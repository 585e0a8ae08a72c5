package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Stock reconciliation errors
var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrDeliveryNotFound  = errors.New("delivery not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInvalidItem       = errors.New("invalid inventory item")
	ErrEmptyDelivery     = errors.New("delivery has no line items")
	ErrInvalidTransition = errors.New("invalid delivery status transition")
	ErrAlreadyReceived   = errors.New("delivery already received")
	ErrConcurrentWrite   = errors.New("concurrent write conflict")
	ErrReceiptInProgress = errors.New("delivery receipt already in progress")
	ErrPartialReceipt    = errors.New("delivery partially applied")
	ErrFinalize          = errors.New("delivery could not be finalized")
	ErrInvalidRecord     = errors.New("invalid record")
)

// NewItemNotFoundError returns ErrItemNotFound naming the item
func NewItemNotFoundError(itemID string) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// NewDeliveryNotFoundError returns ErrDeliveryNotFound naming the delivery
func NewDeliveryNotFoundError(deliveryID string) error {
	return fmt.Errorf("%w: %s", ErrDeliveryNotFound, deliveryID)
}

// NewConcurrentWriteError returns ErrConcurrentWrite naming the item and the
// version the writer expected
func NewConcurrentWriteError(itemID string, expectedVersion int64) error {
	return fmt.Errorf("%w: item %s at version %d", ErrConcurrentWrite, itemID, expectedVersion)
}

// LineStatus is the outcome of applying one delivery line
type LineStatus string

const (
	LineApplied LineStatus = "applied"
	LineFailed  LineStatus = "failed"
	LineSkipped LineStatus = "skipped"
)

// LineOutcome records what happened to one delivery line during a receipt
type LineOutcome struct {
	Index           int        `json:"index"`
	InventoryItemID string     `json:"inventoryItemId"`
	Status          LineStatus `json:"status"`
	Reason          string     `json:"reason,omitempty"`
}

func (o LineOutcome) String() string {
	if o.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", o.Status, o.InventoryItemID, o.Reason)
	}
	return fmt.Sprintf("%s (%s)", o.Status, o.InventoryItemID)
}

// PartialReceiptError is returned when a delivery stopped after some of its
// lines were written to inventory. The delivery is left pending.
type PartialReceiptError struct {
	DeliveryID string
	Lines      []LineOutcome
	Err        error
}

func (e *PartialReceiptError) Error() string {
	failed := e.FailedLine()
	if failed == nil {
		return fmt.Sprintf("delivery %s partially applied: %v", e.DeliveryID, e.Err)
	}
	return fmt.Sprintf("delivery %s partially applied: line %d (%s) failed after %d applied: %v",
		e.DeliveryID, failed.Index, failed.InventoryItemID, len(e.AppliedLines()), e.Err)
}

func (e *PartialReceiptError) Unwrap() error { return e.Err }

func (e *PartialReceiptError) Is(target error) bool { return target == ErrPartialReceipt }

// AppliedLines returns the indexes of lines written to inventory
func (e *PartialReceiptError) AppliedLines() []int {
	return linesWithStatus(e.Lines, LineApplied)
}

// FailedLine returns the line that stopped the receipt
func (e *PartialReceiptError) FailedLine() *LineOutcome {
	for i := range e.Lines {
		if e.Lines[i].Status == LineFailed {
			return &e.Lines[i]
		}
	}
	return nil
}

// FinalizeError is returned when every line was applied but the delivery
// could not be marked received. Inventory updates are not undone.
type FinalizeError struct {
	DeliveryID string
	Lines      []LineOutcome
	Err        error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("delivery %s: %d lines applied but status not updated: %v",
		e.DeliveryID, len(e.Lines), e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

func (e *FinalizeError) Is(target error) bool { return target == ErrFinalize }

// AppliedLines returns the indexes of lines written to inventory
func (e *FinalizeError) AppliedLines() []int {
	return linesWithStatus(e.Lines, LineApplied)
}

func linesWithStatus(lines []LineOutcome, status LineStatus) []int {
	var out []int
	for _, l := range lines {
		if l.Status == status {
			out = append(out, l.Index)
		}
	}
	return out
}

// FormatLines renders line indexes as a comma separated list
func FormatLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprint(l)
	}
	return strings.Join(parts, ",")
}

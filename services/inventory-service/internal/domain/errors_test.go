package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialReceiptError(t *testing.T) {
	cause := NewItemNotFoundError("ITM-2")
	err := error(&PartialReceiptError{
		DeliveryID: "DEL-1",
		Lines: []LineOutcome{
			{Index: 0, InventoryItemID: "ITM-1", Status: LineApplied},
			{Index: 1, InventoryItemID: "ITM-2", Status: LineFailed, Reason: cause.Error()},
			{Index: 2, InventoryItemID: "ITM-3", Status: LineSkipped},
		},
		Err: cause,
	})

	assert.ErrorIs(t, err, ErrPartialReceipt)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NotErrorIs(t, err, ErrFinalize)
	assert.Contains(t, err.Error(), "DEL-1")
	assert.Contains(t, err.Error(), "line 1 (ITM-2)")

	var partial *PartialReceiptError
	if assert.True(t, errors.As(err, &partial)) {
		assert.Equal(t, []int{0}, partial.AppliedLines())
		assert.Equal(t, 1, partial.FailedLine().Index)
	}
}

func TestFinalizeError(t *testing.T) {
	err := error(&FinalizeError{
		DeliveryID: "DEL-9",
		Lines: []LineOutcome{
			{Index: 0, InventoryItemID: "ITM-1", Status: LineApplied},
			{Index: 1, InventoryItemID: "ITM-2", Status: LineApplied},
		},
		Err: ErrInvalidTransition,
	})

	assert.ErrorIs(t, err, ErrFinalize)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "DEL-9")

	var fin *FinalizeError
	if assert.True(t, errors.As(err, &fin)) {
		assert.Equal(t, "0,1", FormatLines(fin.AppliedLines()))
	}
}

func TestConcurrentWriteErrorNamesItem(t *testing.T) {
	err := NewConcurrentWriteError("ITM-7", 3)
	assert.ErrorIs(t, err, ErrConcurrentWrite)
	assert.Contains(t, err.Error(), "ITM-7")
}

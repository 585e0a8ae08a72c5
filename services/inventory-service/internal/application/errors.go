package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/domain"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/errors"
)

// mapDomainError converts domain errors into AppErrors. Errors it does not
// recognise are returned unchanged and surface as internal errors.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}

	var partial *domain.PartialReceiptError
	if stderrors.As(err, &partial) {
		return errors.ErrPartialReceipt(partial.DeliveryID).
			WithDetails(lineDetails(partial.Lines)).
			WithDetail("appliedLines", domain.FormatLines(partial.AppliedLines())).
			Wrap(err)
	}

	var finalize *domain.FinalizeError
	if stderrors.As(err, &finalize) {
		return errors.ErrFinalizeFailure(finalize.DeliveryID).
			WithDetails(lineDetails(finalize.Lines)).
			WithDetail("appliedLines", domain.FormatLines(finalize.AppliedLines())).
			Wrap(err)
	}

	switch {
	case stderrors.Is(err, domain.ErrInvalidTransition):
		return errors.ErrInvalidTransition(err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrItemNotFound):
		return errors.ErrNotFound("inventory item").WithDetail("reason", err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrDeliveryNotFound):
		return errors.ErrNotFound("delivery").WithDetail("reason", err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidQuantity):
		return errors.ErrInvalidQuantity(err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrEmptyDelivery):
		return errors.ErrEmptyDelivery().Wrap(err)
	case stderrors.Is(err, domain.ErrConcurrentWrite):
		return errors.NewAppError(errors.CodeConcurrentWrite, err.Error(), http.StatusConflict).Wrap(err)
	case stderrors.Is(err, domain.ErrAlreadyReceived):
		return errors.NewAppError(errors.CodeAlreadyReceived, err.Error(), http.StatusConflict).Wrap(err)
	case stderrors.Is(err, domain.ErrReceiptInProgress):
		return errors.NewAppError(errors.CodeReceiptInProgress, err.Error(), http.StatusConflict).Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidItem),
		stderrors.Is(err, domain.ErrInvalidRecord),
		stderrors.Is(err, domain.ErrInvalidAmount):
		return errors.ErrValidation(err.Error()).Wrap(err)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.ErrTimeout("request").Wrap(err)
	}

	return err
}

func lineDetails(lines []domain.LineOutcome) map[string]string {
	details := make(map[string]string, len(lines))
	for _, l := range lines {
		details[fmt.Sprintf("line.%d", l.Index)] = l.String()
	}
	return details
}

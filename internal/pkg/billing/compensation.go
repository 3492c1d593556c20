package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/payment"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// CompensationInput identifies a captured payment whose provisioning failed.
type CompensationInput struct {
	SessionRef    string
	PaymentRef    string
	Amount        int64
	Currency      string
	CustomerEmail string
	Cause         error
}

// Compensate is the saga-style counterpart of the provisioner: money was
// captured but no account exists, so the capture is refunded and both the
// customer and the operator are told. It is idempotent and independently
// retryable — the application row is locked and checked before the refund
// call, so two concurrent failures for the same session produce one refund.
//
// A failing refund is the single terminal, non-automated failure mode: it is
// escalated as a manual-review alert and never swallowed.
func (s *Service) Compensate(ctx context.Context, in CompensationInput) error {
	var app *models.Application

	err := s.repo.Transact(ctx, func(r Repository) error {
		found, err := r.ApplicationBySessionRefForUpdate(in.SessionRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No local record; the processor payload still identifies the
				// payment, so the refund below proceeds without one.
				return nil
			}
			return err
		}
		app = found

		if app.Status == models.ApplicationStatusRefunded {
			// Already compensated.
			return errAlreadyCompensated
		}

		refund, err := s.gateway.CreateRefund(ctx, payment.RefundParams{
			PaymentRef: in.PaymentRef,
			Reason:     "account provisioning failed",
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRefundFailed, err)
		}

		log.Warnf("[Billing] refunded %d %s for session %s (refund %s)", refund.AmountRefunded, in.Currency, in.SessionRef, refund.ID)
		app.Status = models.ApplicationStatusRefunded
		app.LastError = causeMessage(in.Cause)
		return r.SaveApplication(app)
	})
	if errors.Is(err, errAlreadyCompensated) {
		return nil
	}
	if err != nil {
		if errors.Is(err, ErrRefundFailed) {
			// The rollback above discarded any writes, so the failed marker
			// gets its own transaction.
			s.markCompensationFailed(ctx, in.SessionRef, in.Cause)
			s.alertOperator("MANUAL REVIEW REQUIRED: refund failed",
				fmt.Sprintf("session=%s payment=%s amount=%d %s\nprovisioning error: %s\nrefund error: %v",
					in.SessionRef, in.PaymentRef, in.Amount, in.Currency, causeMessage(in.Cause), err))
		}
		return err
	}

	if app == nil {
		// Orphan payment: refund with no application row.
		if _, refundErr := s.gateway.CreateRefund(ctx, payment.RefundParams{
			PaymentRef: in.PaymentRef,
			Reason:     "no application for checkout session",
		}); refundErr != nil {
			s.alertOperator("MANUAL REVIEW REQUIRED: refund failed",
				fmt.Sprintf("session=%s payment=%s amount=%d %s (no application row)\nrefund error: %v",
					in.SessionRef, in.PaymentRef, in.Amount, in.Currency, refundErr))
			return fmt.Errorf("%w: %v", ErrRefundFailed, refundErr)
		}
	}

	if in.CustomerEmail != "" {
		if mailErr := s.notifier.SendRefundNotice(in.CustomerEmail, in.Amount, in.Currency, in.SessionRef); mailErr != nil {
			log.Errorf("[Billing] refund notice for %s failed: %v", in.CustomerEmail, mailErr)
		}
	}
	s.alertOperator("Checkout refunded after provisioning failure",
		fmt.Sprintf("session=%s payment=%s amount=%d %s\nroot cause: %s",
			in.SessionRef, in.PaymentRef, in.Amount, in.Currency, causeMessage(in.Cause)))
	return nil
}

var errAlreadyCompensated = errors.New("session already compensated")

func (s *Service) markCompensationFailed(ctx context.Context, sessionRef string, cause error) {
	err := s.repo.Transact(ctx, func(r Repository) error {
		app, err := r.ApplicationBySessionRefForUpdate(sessionRef)
		if err != nil {
			return err
		}
		app.Status = models.ApplicationStatusFailed
		app.LastError = causeMessage(cause)
		return r.SaveApplication(app)
	})
	if err != nil {
		log.Errorf("[Billing] marking session %s failed: %v", sessionRef, err)
	}
}

func (s *Service) alertOperator(subject, body string) {
	if err := s.notifier.SendOperatorAlert(subject, body); err != nil {
		log.Errorf("[Billing] operator alert %q failed: %v", subject, err)
	}
}

func causeMessage(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}

package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/payment"
	"gorm.io/gorm"
)

// SyncSubscriptionState applies one lifecycle notification to the billing
// state machine. The billing row is locked for the read-modify-write so a
// renewal notification cannot race a concurrent manual cancellation into a
// lost update. Every transition is a no-op when the row is already in the
// target state, which makes redelivery and reordering safe.
func (s *Service) SyncSubscriptionState(ctx context.Context, ev SubscriptionEvent) error {
	return s.repo.Transact(ctx, func(r Repository) error {
		billing, err := r.BillingBySubscriptionRefForUpdate(ev.SubscriptionRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBillingNotFound
			}
			return err
		}

		switch ev.Kind {
		case payment.EventSubscriptionUpdated:
			s.applySubscriptionUpdate(billing, ev)
		case payment.EventSubscriptionDeleted:
			now := s.now()
			billing.Status = models.BillingStatusCancelled
			billing.CancelledAt = &now
		case payment.EventInvoicePaid:
			// The final invoice of a subscription can arrive after its
			// deletion; a cancelled row never comes back via invoices.
			if billing.Status == models.BillingStatusCancelled {
				return nil
			}
			billing.Status = models.BillingStatusActive
			next := NextBillingDate(s.now(), billing.BillingDay, billing.BillingType)
			billing.NextBillingDate = &next
		case payment.EventInvoicePaymentFailed:
			if billing.Status == models.BillingStatusCancelled {
				return nil
			}
			billing.Status = models.BillingStatusPastDue
		default:
			return nil
		}

		return r.SaveBilling(billing)
	})
}

func (s *Service) applySubscriptionUpdate(billing *models.Billing, ev SubscriptionEvent) {
	if ev.CancelAtPeriodEnd {
		// NextBillingDate is left alone: it now marks where the already
		// paid access period ends.
		s.cancelAtPeriodEnd(billing)
		return
	}
	switch strings.ToLower(strings.TrimSpace(ev.Status)) {
	case "past_due":
		billing.Status = models.BillingStatusPastDue
	case "active":
		s.reactivate(billing)
	}
}

// cancelAtPeriodEnd marks the subscription cancelled, keeping an earlier
// cancellation time if one is already recorded.
func (s *Service) cancelAtPeriodEnd(billing *models.Billing) {
	billing.Status = models.BillingStatusCancelled
	if billing.CancelledAt == nil {
		now := s.now()
		billing.CancelledAt = &now
	}
}

func (s *Service) reactivate(billing *models.Billing) {
	billing.Status = models.BillingStatusActive
	billing.CancelledAt = nil
}

// CancelSubscription is the user-initiated cancel action. It goes through
// the same locked transitions as the webhook-driven synchronizer.
func (s *Service) CancelSubscription(ctx context.Context, userID uint) error {
	return s.repo.Transact(ctx, func(r Repository) error {
		billing, err := r.BillingByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBillingNotFound
			}
			return err
		}
		s.cancelAtPeriodEnd(billing)
		return r.SaveBilling(billing)
	})
}

// ReactivateSubscription undoes a pending cancellation before the paid
// period ran out.
func (s *Service) ReactivateSubscription(ctx context.Context, userID uint) error {
	return s.repo.Transact(ctx, func(r Repository) error {
		billing, err := r.BillingByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBillingNotFound
			}
			return err
		}
		s.reactivate(billing)
		return r.SaveBilling(billing)
	})
}

// BillingOverview is the billing-status read model: the stored record, the
// recomputed price breakdown (same calculator as checkout, so the display
// can never drift from what was charged) and the access decision.
type BillingOverview struct {
	Billing   *models.Billing `json:"billing"`
	Price     PriceBreakdown  `json:"price"`
	HasAccess bool            `json:"has_access"`
}

// GetBillingOverview loads the billing record for a user.
func (s *Service) GetBillingOverview(ctx context.Context, userID uint) (*BillingOverview, error) {
	_ = ctx
	billing, err := s.repo.BillingByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}

	price, err := CalculatePrice(billing.BillingType, billing.CustomAddOnFee > 0)
	if err != nil {
		return nil, err
	}

	return &BillingOverview{
		Billing:   billing,
		Price:     price,
		HasAccess: billing.HasAccess(s.now()),
	}, nil
}

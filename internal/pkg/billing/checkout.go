package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/payment"
)

// InitiateCheckout persists a pending application and opens a checkout
// session at the processor. The application row is created first so the
// session's client reference can point back at it; if the processor call
// fails the row simply stays pending and is abandoned — no money has moved,
// so there is nothing to compensate.
func (s *Service) InitiateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutHandle, error) {
	plan := NormalizePlan(req.Plan)
	if plan == "" {
		return nil, ErrUnknownPlan
	}

	app := &models.Application{
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:             strings.TrimSpace(req.Phone),
		City:              strings.TrimSpace(req.City),
		Country:           strings.TrimSpace(req.Country),
		Purposes:          strings.Join(req.Purposes, ","),
		Plan:              plan,
		CustomDomainAddOn: req.CustomDomainAddOn,
		Status:            models.ApplicationStatusPending,
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}

	price, err := CalculatePrice(plan, req.CustomDomainAddOn)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateApplication(app); err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutSessionParams{
		LineItems:       checkoutLineItems(plan, price),
		Mode:            "subscription",
		SuccessURL:      s.urls.SuccessURL,
		CancelURL:       s.urls.CancelURL,
		ClientReference: app.UUID,
		CustomerEmail:   app.Email,
	})
	if err != nil {
		// Retryable: the pending application stays behind, no side effects.
		return nil, fmt.Errorf("open checkout session: %w", err)
	}

	app.CheckoutSessionRef = session.ID
	if err := s.repo.SaveApplication(app); err != nil {
		return nil, err
	}

	return &CheckoutHandle{
		SessionRef:      session.ID,
		RedirectURL:     session.RedirectURL,
		ApplicationUUID: app.UUID,
	}, nil
}

// VerifyCheckoutSession is the polling twin of the checkout_completed
// webhook: it asks the processor for the session state and, when paid, runs
// the same provisioner, so both paths produce identical outcomes for one
// session.
func (s *Service) VerifyCheckoutSession(ctx context.Context, sessionID string) (*ProvisionResult, error) {
	details, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve session: %w", err)
	}
	if details.PaymentStatus != payment.PaymentStatusPaid {
		return nil, ErrSessionNotPaid
	}

	return s.HandleCheckoutCompleted(ctx, CompletedCheckout{
		SessionRef:      details.ID,
		PaymentRef:      details.PaymentRef,
		CustomerRef:     details.CustomerRef,
		SubscriptionRef: details.SubscriptionRef,
		AmountCaptured:  details.AmountTotal,
		Currency:        details.Currency,
		CustomerEmail:   details.CustomerEmail,
	})
}

func checkoutLineItems(plan string, price PriceBreakdown) []payment.LineItem {
	planLabel := "CastBoard monthly subscription"
	if plan == PlanYearly {
		planLabel = "CastBoard yearly subscription"
	}

	items := []payment.LineItem{
		{Name: "CastBoard setup fee", Amount: price.SetupFee, Currency: price.Currency, Quantity: 1},
		{Name: planLabel, Amount: price.RecurringAmount, Currency: price.Currency, Quantity: 1},
	}
	if price.AddOnFee > 0 {
		items = append(items, payment.LineItem{
			Name: "Custom domain add-on", Amount: price.AddOnFee, Currency: price.Currency, Quantity: 1,
		})
	}
	return items
}

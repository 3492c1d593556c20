package billing

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/castboard/castboard/app/models"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HandleCheckoutCompleted is the entry point for a captured payment, shared
// by the webhook path and verify-by-polling. It provisions the account and,
// when provisioning fails after money has moved, routes the failure through
// compensation. Credentials for a newly created account are delivered after
// the transaction committed.
func (s *Service) HandleCheckoutCompleted(ctx context.Context, in CompletedCheckout) (*ProvisionResult, error) {
	result, err := s.ProvisionCompletedCheckout(ctx, in)
	if err == nil {
		if result.Outcome == OutcomeCreated {
			if mailErr := s.notifier.SendCredentials(result.Email, result.TempPassword); mailErr != nil {
				log.Errorf("[Billing] credentials mail for %s failed: %v", result.Email, mailErr)
			}
		}
		return result, nil
	}

	if compErr := s.Compensate(ctx, CompensationInput{
		SessionRef:    in.SessionRef,
		PaymentRef:    in.PaymentRef,
		Amount:        in.AmountCaptured,
		Currency:      in.Currency,
		CustomerEmail: in.CustomerEmail,
		Cause:         err,
	}); compErr != nil {
		log.Errorf("[Billing] compensation for session %s failed: %v", in.SessionRef, compErr)
	}
	return nil, err
}

// ProvisionCompletedCheckout turns a completed checkout into a user, profile
// and billing record, exactly once. The whole algorithm runs in a single
// transaction; the application row is locked first so concurrent deliveries
// for the same session serialize on it, and the unique constraints on email
// and the session reference are the backstop if the idempotency check itself
// ever races.
func (s *Service) ProvisionCompletedCheckout(ctx context.Context, in CompletedCheckout) (*ProvisionResult, error) {
	// bcrypt is deliberately slow; hash before the transaction so the work
	// never holds database locks. Wasted on replay and collision paths.
	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	passwordHash, err := models.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, provisionTimeout)
	defer cancel()

	var result *ProvisionResult
	err = s.repo.Transact(ctx, func(r Repository) error {
		app, err := r.ApplicationBySessionRefForUpdate(in.SessionRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		// Idempotent short-circuit: duplicate delivery returns the recorded
		// outcome and touches nothing.
		if app.Processed {
			result = recordedOutcome(app)
			return nil
		}

		// A refunded application is terminal. The money went back, so a late
		// redelivery must not provision an account for it.
		if app.Status == models.ApplicationStatusRefunded {
			result = &ProvisionResult{Outcome: OutcomeRefunded, Email: app.Email}
			return nil
		}

		if existing, err := r.UserByEmail(app.Email); err == nil {
			// The email already has an account; link instead of creating.
			// No credentials are issued for an account we did not create.
			now := s.now()
			app.UserID = &existing.ID
			app.Processed = true
			app.ProcessedAt = &now
			app.Status = models.ApplicationStatusCompleted
			if err := r.SaveApplication(app); err != nil {
				return err
			}
			result = &ProvisionResult{
				Outcome: OutcomeAlreadyExisted,
				UserID:  existing.ID,
				Email:   existing.Email,
			}
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tenant, err := r.FindOrCreateDefaultTenant()
		if err != nil {
			return err
		}

		user, err := models.NewUser(app.FullName(), app.Email, passwordHash, tenant.ID)
		if err != nil {
			return err
		}
		user.UUID = uuid.New().String()
		if err := r.CreateUser(user); err != nil {
			return err
		}

		profile := &models.Profile{
			UserID:    user.ID,
			FirstName: app.FirstName,
			LastName:  app.LastName,
			City:      app.City,
			Country:   app.Country,
			Purposes:  app.Purposes,
		}
		if err := r.CreateProfile(profile); err != nil {
			return err
		}

		price, err := CalculatePrice(app.Plan, app.CustomDomainAddOn)
		if err != nil {
			return err
		}

		now := s.now()
		billingDay := now.Day()
		nextBillingDate := NextBillingDate(now, billingDay, app.Plan)
		billing := &models.Billing{
			UserID:          user.ID,
			ApplicationID:   app.ID,
			CustomerRef:     in.CustomerRef,
			SubscriptionRef: in.SubscriptionRef,
			BillingType:     app.Plan,
			BillingDay:      billingDay,
			NextBillingDate: &nextBillingDate,
			SetupFee:        price.SetupFee,
			RecurringAmount: price.RecurringAmount,
			CustomAddOnFee:  price.AddOnFee,
			InitialAmount:   price.InitialAmount,
			Currency:        price.Currency,
			Status:          models.BillingStatusActive,
		}
		if err := r.CreateBilling(billing); err != nil {
			return err
		}

		app.UserID = &user.ID
		app.Processed = true
		app.ProcessedAt = &now
		app.Status = models.ApplicationStatusCompleted
		if err := r.SaveApplication(app); err != nil {
			return err
		}

		result = &ProvisionResult{
			Outcome:      OutcomeCreated,
			UserID:       user.ID,
			Email:        user.Email,
			TempPassword: tempPassword,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("provision session %s: %w", in.SessionRef, err)
	}
	return result, nil
}

// recordedOutcome reconstructs the response for a replayed delivery from the
// terminal application state. The temp password of the first processing is
// gone on purpose; replays never carry credentials.
func recordedOutcome(app *models.Application) *ProvisionResult {
	result := &ProvisionResult{Outcome: OutcomeAlreadyProcessed, Email: app.Email}
	if app.UserID != nil {
		result.UserID = *app.UserID
	}
	return result
}

func generateTempPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package billing

import (
	"time"

	"github.com/castboard/castboard/internal/pkg/payment"
	"gorm.io/gorm"
)

// provisionTimeout bounds the provisioning transaction. Generous because the
// transaction spans several inserts, but bcrypt work happens before it.
const provisionTimeout = 15 * time.Second

// URLs are where the processor sends the customer back after checkout.
type URLs struct {
	SuccessURL string
	CancelURL  string
}

// Service runs the payment-triggered provisioning pipeline: checkout
// initiation, account provisioning, compensation and subscription state
// sync. All state lives behind the Repository; the processor and mail
// delivery are injected collaborators.
type Service struct {
	repo     Repository
	gateway  payment.Gateway
	notifier Notifier
	urls     URLs

	now func() time.Time
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, gateway payment.Gateway, notifier Notifier, urls URLs) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		urls:     urls,
		now:      time.Now,
	}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway payment.Gateway, notifier Notifier, urls URLs) *Service {
	return NewService(NewRepository(db), gateway, notifier, urls)
}

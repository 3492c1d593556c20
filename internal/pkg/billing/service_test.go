package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/payment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeRepository is an in-memory Repository. Transact serializes callers on
// one mutex (the stand-in for row locking) and restores a snapshot when the
// closure fails, which gives the tests real rollback semantics without a
// database.
type fakeRepository struct {
	mu sync.Mutex

	apps     map[uint]*models.Application
	users    map[uint]*models.User
	profiles map[uint]*models.Profile
	billings map[uint]*models.Billing
	tenants  map[uint]*models.Tenant
	nextID   uint

	failCreateUser    error
	failCreateBilling error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		apps:     make(map[uint]*models.Application),
		users:    make(map[uint]*models.User),
		profiles: make(map[uint]*models.Profile),
		billings: make(map[uint]*models.Billing),
		tenants:  make(map[uint]*models.Tenant),
	}
}

func (f *fakeRepository) id() uint {
	f.nextID++
	return f.nextID
}

func copyMap[T any](src map[uint]*T) map[uint]*T {
	dst := make(map[uint]*T, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func (f *fakeRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	apps, users := copyMap(f.apps), copyMap(f.users)
	profiles, billings := copyMap(f.profiles), copyMap(f.billings)
	tenants, nextID := copyMap(f.tenants), f.nextID

	if err := fn(f); err != nil {
		f.apps, f.users, f.profiles, f.billings, f.tenants, f.nextID = apps, users, profiles, billings, tenants, nextID
		return err
	}
	return nil
}

func (f *fakeRepository) ApplicationBySessionRef(ref string) (*models.Application, error) {
	for _, app := range f.apps {
		if app.CheckoutSessionRef == ref {
			c := *app
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ApplicationBySessionRefForUpdate(ref string) (*models.Application, error) {
	return f.ApplicationBySessionRef(ref)
}

func (f *fakeRepository) CreateApplication(app *models.Application) error {
	for _, existing := range f.apps {
		if app.CheckoutSessionRef != "" && existing.CheckoutSessionRef == app.CheckoutSessionRef {
			return fmt.Errorf("duplicate checkout session ref %s", app.CheckoutSessionRef)
		}
	}
	app.ID = f.id()
	if app.UUID == "" {
		app.UUID = uuid.New().String()
	}
	c := *app
	f.apps[app.ID] = &c
	return nil
}

func (f *fakeRepository) SaveApplication(app *models.Application) error {
	if _, ok := f.apps[app.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *app
	f.apps[app.ID] = &c
	return nil
}

func (f *fakeRepository) UserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			c := *user
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) CreateUser(user *models.User) error {
	if f.failCreateUser != nil {
		return f.failCreateUser
	}
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	user.ID = f.id()
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeRepository) CreateProfile(profile *models.Profile) error {
	profile.ID = f.id()
	c := *profile
	f.profiles[profile.ID] = &c
	return nil
}

func (f *fakeRepository) CreateBilling(billing *models.Billing) error {
	if f.failCreateBilling != nil {
		return f.failCreateBilling
	}
	for _, existing := range f.billings {
		if existing.UserID == billing.UserID {
			return fmt.Errorf("duplicate billing for user %d", billing.UserID)
		}
	}
	billing.ID = f.id()
	c := *billing
	f.billings[billing.ID] = &c
	return nil
}

func (f *fakeRepository) BillingByUserID(userID uint) (*models.Billing, error) {
	for _, billing := range f.billings {
		if billing.UserID == userID {
			c := *billing
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) BillingByUserIDForUpdate(userID uint) (*models.Billing, error) {
	return f.BillingByUserID(userID)
}

func (f *fakeRepository) BillingBySubscriptionRefForUpdate(ref string) (*models.Billing, error) {
	for _, billing := range f.billings {
		if billing.SubscriptionRef == ref {
			c := *billing
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) SaveBilling(billing *models.Billing) error {
	if _, ok := f.billings[billing.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *billing
	f.billings[billing.ID] = &c
	return nil
}

func (f *fakeRepository) FindOrCreateDefaultTenant() (*models.Tenant, error) {
	for _, tenant := range f.tenants {
		if tenant.IsDefault {
			c := *tenant
			return &c, nil
		}
	}
	tenant := &models.Tenant{ID: f.id(), Name: models.DefaultTenantName, IsDefault: true}
	c := *tenant
	f.tenants[tenant.ID] = &c
	return tenant, nil
}

// fakeGateway records processor calls.
type fakeGateway struct {
	mu sync.Mutex

	sessions       int
	refunds        []payment.RefundParams
	failCheckout   error
	failRefund     error
	sessionDetails map[string]*payment.SessionDetails
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessionDetails: make(map[string]*payment.SessionDetails)}
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params payment.CheckoutSessionParams) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCheckout != nil {
		return nil, g.failCheckout
	}
	g.sessions++
	id := fmt.Sprintf("cs_test_%d", g.sessions)
	return &payment.CheckoutSession{ID: id, RedirectURL: "https://pay.example.com/" + id}, nil
}

func (g *fakeGateway) RetrieveSession(ctx context.Context, sessionID string) (*payment.SessionDetails, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	details, ok := g.sessionDetails[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	c := *details
	return &c, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, params payment.RefundParams) (*payment.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failRefund != nil {
		return nil, g.failRefund
	}
	g.refunds = append(g.refunds, params)
	return &payment.Refund{ID: fmt.Sprintf("re_test_%d", len(g.refunds)), AmountRefunded: 0}, nil
}

func (g *fakeGateway) refundCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refunds)
}

// fakeNotifier records outbound messages.
type fakeNotifier struct {
	mu sync.Mutex

	credentials   []string // "email:password"
	refundNotices []string
	alerts        []string // subjects
}

func (n *fakeNotifier) SendCredentials(email, tempPassword string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.credentials = append(n.credentials, email+":"+tempPassword)
	return nil
}

func (n *fakeNotifier) SendRefundNotice(email string, amount int64, currency, reference string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refundNotices = append(n.refundNotices, fmt.Sprintf("%s:%d:%s:%s", email, amount, currency, reference))
	return nil
}

func (n *fakeNotifier) SendOperatorAlert(subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, subject)
	return nil
}

func (n *fakeNotifier) alertSubjects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.alerts...)
}

var errInjected = errors.New("injected failure")

func newTestService() (*Service, *fakeRepository, *fakeGateway, *fakeNotifier) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	notifier := &fakeNotifier{}
	svc := NewService(repo, gateway, notifier, URLs{
		SuccessURL: "https://app.castboard.io/checkout/success",
		CancelURL:  "https://app.castboard.io/checkout/cancelled",
	})
	return svc, repo, gateway, notifier
}

func atTime(svc *Service, t time.Time) {
	svc.now = func() time.Time { return t }
}

func completedCheckout(sessionRef string) CompletedCheckout {
	return CompletedCheckout{
		SessionRef:      sessionRef,
		PaymentRef:      "py_" + sessionRef,
		CustomerRef:     "cus_" + sessionRef,
		SubscriptionRef: "sub_" + sessionRef,
		AmountCaptured:  7800,
		Currency:        "EUR",
		CustomerEmail:   "jane@example.com",
	}
}

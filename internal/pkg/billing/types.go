package billing

// CheckoutRequest is the applicant input that opens a checkout session.
type CheckoutRequest struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	City              string   `json:"city"`
	Country           string   `json:"country"`
	Purposes          []string `json:"purposes"`
	Plan              string   `json:"plan"`
	CustomDomainAddOn bool     `json:"custom_domain_add_on"`
}

// CheckoutHandle is what the initiator returns: the processor session and
// where to send the customer.
type CheckoutHandle struct {
	SessionRef      string `json:"session_ref"`
	RedirectURL     string `json:"redirect_url"`
	ApplicationUUID string `json:"application_uuid"`
}

// CompletedCheckout is the normalized "money has been captured" input for
// the account provisioner, assembled either from a checkout_completed
// webhook or from session retrieval in the verify-by-polling path.
type CompletedCheckout struct {
	SessionRef      string
	PaymentRef      string
	CustomerRef     string
	SubscriptionRef string
	AmountCaptured  int64
	Currency        string
	CustomerEmail   string
}

// Provisioning outcomes. Replayed deliveries return the recorded outcome of
// the first processing; only a first-time creation carries a temp password.
const (
	OutcomeCreated          = "created"
	OutcomeAlreadyExisted   = "already_existed"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeRefunded         = "refunded"
)

// ProvisionResult is the provisioner's answer for one completed checkout.
// TempPassword is only set when Outcome is OutcomeCreated and is never
// persisted anywhere; this response is the single carrier.
type ProvisionResult struct {
	Outcome      string `json:"outcome"`
	UserID       uint   `json:"user_id,omitempty"`
	Email        string `json:"email,omitempty"`
	TempPassword string `json:"temp_password,omitempty"`
}

// SubscriptionEvent is the normalized lifecycle notification applied by the
// subscription state synchronizer.
type SubscriptionEvent struct {
	Kind              string
	SubscriptionRef   string
	Status            string
	CancelAtPeriodEnd bool
}

// Notifier is the outbound messaging surface of the pipeline. Delivery is
// fire-and-forget: failures are logged by implementations, never bubbled
// into the provisioning transaction.
type Notifier interface {
	SendCredentials(email, tempPassword string) error
	SendRefundNotice(email string, amount int64, currency, reference string) error
	SendOperatorAlert(subject, body string) error
}

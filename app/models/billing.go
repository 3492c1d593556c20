package models

import "time"

const (
	BillingTypeMonthly = "monthly"
	BillingTypeYearly  = "yearly"
)

const (
	BillingStatusActive    = "active"
	BillingStatusPastDue   = "past_due"
	BillingStatusCancelled = "cancelled"
)

// Billing is the subscription record tied 1:1 to a user and to the
// application that produced it. After creation it is only mutated by the
// subscription state synchronizer or the user-initiated cancel/reactivate
// action; both go through the same row-locked state machine.
//
// NextBillingDate doubles as the access-expiry marker once the subscription
// is cancelled: cancellation revokes renewal, not the already paid period.
type Billing struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User            User       `gorm:"foreignKey:UserID" json:"-"`
	ApplicationID   uint       `gorm:"uniqueIndex;not null" json:"application_id"`
	CustomerRef     string     `gorm:"type:varchar(191);index" json:"-"`
	SubscriptionRef string     `gorm:"type:varchar(191);uniqueIndex" json:"-"`
	BillingType     string     `gorm:"type:varchar(20);not null" json:"billing_type"`
	BillingDay      int        `gorm:"not null" json:"billing_day"`
	NextBillingDate *time.Time `gorm:"type:timestamp;default:null" json:"next_billing_date,omitempty"`
	SetupFee        int64      `gorm:"not null" json:"setup_fee"`
	RecurringAmount int64      `gorm:"not null" json:"recurring_amount"`
	CustomAddOnFee  int64      `gorm:"not null;default:0" json:"custom_add_on_fee"`
	InitialAmount   int64      `gorm:"not null" json:"initial_amount"`
	Currency        string     `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	Status          string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CancelledAt     *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasAccess reports whether the subscription currently grants access: active
// subscriptions always do, cancelled ones until the already paid period runs
// out, past_due ones do not.
func (b *Billing) HasAccess(now time.Time) bool {
	switch b.Status {
	case BillingStatusActive:
		return true
	case BillingStatusCancelled:
		return b.NextBillingDate != nil && b.NextBillingDate.After(now)
	default:
		return false
	}
}

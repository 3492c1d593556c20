package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusCompleted = "completed"
	ApplicationStatusRefunded  = "refunded"
	ApplicationStatusFailed    = "failed"
)

// Application is the intake record for one checkout attempt. It is created
// when the checkout session is opened and mutated exactly once afterwards,
// by the account provisioner (completed) or the compensation handler
// (refunded/failed). The checkout session reference is unique, so duplicate
// webhook deliveries always resolve to the same row.
type Application struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UUID               string     `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	FirstName          string     `gorm:"type:varchar(100)" json:"first_name" validate:"required,max=100"`
	LastName           string     `gorm:"type:varchar(100)" json:"last_name" validate:"required,max=100"`
	Email              string     `gorm:"type:varchar(200);index" json:"email" validate:"required,email,max=200"`
	Phone              string     `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`
	City               string     `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	Country            string     `gorm:"type:varchar(100)" json:"country" validate:"max=100"`
	Purposes           string     `gorm:"type:varchar(255)" json:"purposes"`
	Plan               string     `gorm:"type:varchar(20);not null" json:"plan" validate:"required,oneof=monthly yearly"`
	CustomDomainAddOn  bool       `gorm:"default:false" json:"custom_domain_add_on"`
	CheckoutSessionRef string     `gorm:"type:varchar(191);uniqueIndex;default:null" json:"-"`
	Status             string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Processed          bool       `gorm:"default:false" json:"processed"`
	ProcessedAt        *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	UserID             *uint      `gorm:"index;default:null" json:"user_id,omitempty"`
	LastError          string     `gorm:"type:text" json:"-"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Application) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}

// FullName joins the applicant name the way it is copied onto the profile.
func (a *Application) FullName() string {
	return a.FirstName + " " + a.LastName
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// WebsiteConfig holds the hosted sedcard-website settings for a user. The
// custom domain is only honored when the subscription carries the add-on.
type WebsiteConfig struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"-"`
	Subdomain    string         `gorm:"type:varchar(63);uniqueIndex" json:"subdomain" validate:"required,hostname,min=3,max=63"`
	CustomDomain string         `gorm:"type:varchar(255);default:null" json:"custom_domain" validate:"omitempty,fqdn,max=255"`
	Template     string         `gorm:"type:varchar(50);default:'classic'" json:"template" validate:"omitempty,oneof=classic editorial minimal"`
	AccentColor  string         `gorm:"type:varchar(7);default:'#111111'" json:"accent_color" validate:"omitempty,hexcolor"`
	Published    bool           `gorm:"default:false" json:"published"`
	ViewCount    int64          `gorm:"default:0" json:"view_count"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

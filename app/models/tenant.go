package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTenantName = "castboard"

// Tenant groups users of one customer organisation. Most installations only
// ever use the default tenant, but every user row carries a tenant reference
// so ownership checks stay uniform.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex" json:"name" validate:"required,min=2,max=100"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FindOrCreateDefaultTenant resolves the default tenant, creating it when the
// table is empty. The unique index on name makes concurrent creation safe: a
// losing insert falls through to the follow-up lookup.
func FindOrCreateDefaultTenant(db *gorm.DB) (*Tenant, error) {
	tenant := &Tenant{Name: DefaultTenantName, IsDefault: true}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(tenant).Error; err != nil {
		return nil, err
	}
	if err := db.Where("name = ?", DefaultTenantName).First(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

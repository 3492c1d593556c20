package models

import (
	"time"

	"gorm.io/gorm"
)

// Gallery is a named collection of sedcard images. Only metadata lives here;
// the binaries stay wherever the customer hosts them.
type Gallery struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=255"`
	CoverURL  string         `gorm:"type:varchar(500)" json:"cover_url" validate:"omitempty,url,max=500"`
	Images    []GalleryImage `gorm:"foreignKey:GalleryID" json:"images,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type GalleryImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GalleryID uint      `gorm:"index;not null" json:"gallery_id"`
	URL       string    `gorm:"type:varchar(500);not null" json:"url" validate:"required,url,max=500"`
	Caption   string    `gorm:"type:varchar(255)" json:"caption" validate:"max=255"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

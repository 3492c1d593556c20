package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile carries the sedcard identity of a user: stage name, body
// measurements and the booking purposes the talent is available for. It is
// created 1:1 with the user inside the provisioning transaction and never
// exists without one.
type Profile struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"-"`
	ArtistName string         `gorm:"type:varchar(150)" json:"artist_name" validate:"max=150"`
	FirstName  string         `gorm:"type:varchar(100)" json:"first_name" validate:"required,max=100"`
	LastName   string         `gorm:"type:varchar(100)" json:"last_name" validate:"required,max=100"`
	Gender     string         `gorm:"type:varchar(20)" json:"gender" validate:"omitempty,oneof=female male diverse"`
	BirthYear  int            `json:"birth_year" validate:"omitempty,min=1920,max=2020"`
	City       string         `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	Country    string         `gorm:"type:varchar(100)" json:"country" validate:"max=100"`
	HeightCM   int            `json:"height_cm" validate:"omitempty,min=50,max=250"`
	ChestCM    int            `json:"chest_cm" validate:"omitempty,min=30,max=200"`
	WaistCM    int            `json:"waist_cm" validate:"omitempty,min=30,max=200"`
	HipsCM     int            `json:"hips_cm" validate:"omitempty,min=30,max=200"`
	ShoeSizeEU float64        `json:"shoe_size_eu" validate:"omitempty,min=20,max=55"`
	HairColor  string         `gorm:"type:varchar(50)" json:"hair_color" validate:"max=50"`
	EyeColor   string         `gorm:"type:varchar(50)" json:"eye_color" validate:"max=50"`
	Purposes   string         `gorm:"type:varchar(255)" json:"purposes"` // comma separated, e.g. "fashion,editorial"
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

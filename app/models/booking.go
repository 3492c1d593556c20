package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusRequested = "requested"
	BookingStatusConfirmed = "confirmed"
	BookingStatusDeclined  = "declined"
	BookingStatusDone      = "done"
)

type Booking struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=255"`
	ClientName  string         `gorm:"type:varchar(150)" json:"client_name" validate:"max=150"`
	ClientEmail string         `gorm:"type:varchar(200)" json:"client_email" validate:"omitempty,email,max=200"`
	StartsAt    time.Time      `gorm:"type:timestamp;not null" json:"starts_at" validate:"required"`
	EndsAt      time.Time      `gorm:"type:timestamp;not null" json:"ends_at" validate:"required"`
	Location    string         `gorm:"type:varchar(255)" json:"location" validate:"max=255"`
	Status      string         `gorm:"type:varchar(20);not null;default:'requested';index" json:"status" validate:"omitempty,oneof=requested confirmed declined done"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

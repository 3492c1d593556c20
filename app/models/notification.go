package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationKindBooking = "booking"
	NotificationKindBilling = "billing"
	NotificationKindSystem  = "system"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Kind      string         `gorm:"type:varchar(50)" json:"kind" validate:"oneof=booking billing system"`
	Subject   string         `gorm:"type:varchar(255)" json:"subject"`
	Body      string         `gorm:"type:text" json:"body"`
	ReadAt    *time.Time     `gorm:"type:timestamp;default:null" json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarkAsRead stamps the notification as read, keeping the first read time.
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	if n.ReadAt != nil {
		return nil
	}
	now := time.Now()
	n.ReadAt = &now
	return db.Model(n).Update("read_at", n.ReadAt).Error
}

// CreateNotification stores a new unread notification for a user.
func CreateNotification(db *gorm.DB, userID uint, kind, subject, body string) error {
	notification := Notification{
		UserID:  userID,
		Kind:    kind,
		Subject: subject,
		Body:    body,
	}

	return db.Create(&notification).Error
}

package repository

import (
	"github.com/castboard/castboard/app/models"
	"gorm.io/gorm"
)

// bookingRepository implements the BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository instance
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking
func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking by its ID
func (r *bookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByUserID retrieves a paginated list of bookings for a user, upcoming first
func (r *bookingRepository) GetByUserID(userID uint, offset, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("user_id = ?", userID).
		Order("starts_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error
	return bookings, err
}

// Update saves booking changes
func (r *bookingRepository) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

// Delete soft deletes a booking
func (r *bookingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Booking{}, id).Error
}

// CountByUserID returns the number of bookings a user has
func (r *bookingRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

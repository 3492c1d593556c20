package repository

import (
	"github.com/castboard/castboard/app/models"
	"gorm.io/gorm"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID retrieves the sedcard profile of a user. Profiles are created
// during provisioning, so a missing row is a data error, not a normal state.
func (r *profileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves profile changes
func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

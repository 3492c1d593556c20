package repository

import (
	"strings"

	"github.com/castboard/castboard/app/models"
	"gorm.io/gorm"
)

// websiteRepository implements the WebsiteRepository interface
type websiteRepository struct {
	db *gorm.DB
}

// NewWebsiteRepository creates a new website repository instance
func NewWebsiteRepository(db *gorm.DB) WebsiteRepository {
	return &websiteRepository{db: db}
}

// GetByUserID retrieves the website configuration of a user
func (r *websiteRepository) GetByUserID(userID uint) (*models.WebsiteConfig, error) {
	var config models.WebsiteConfig
	err := r.db.Where("user_id = ?", userID).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetBySubdomain resolves a subdomain to its website configuration
func (r *websiteRepository) GetBySubdomain(subdomain string) (*models.WebsiteConfig, error) {
	var config models.WebsiteConfig
	err := r.db.Where("subdomain = ?", strings.ToLower(strings.TrimSpace(subdomain))).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Save creates or updates a website configuration
func (r *websiteRepository) Save(config *models.WebsiteConfig) error {
	config.Subdomain = strings.ToLower(strings.TrimSpace(config.Subdomain))
	return r.db.Save(config).Error
}

// SubdomainTaken reports whether another user already claimed a subdomain
func (r *websiteRepository) SubdomainTaken(subdomain string, exceptUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WebsiteConfig{}).
		Where("subdomain = ? AND user_id <> ?", strings.ToLower(strings.TrimSpace(subdomain)), exceptUserID).
		Count(&count).Error
	return count > 0, err
}

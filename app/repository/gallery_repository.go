package repository

import (
	"github.com/castboard/castboard/app/models"
	"gorm.io/gorm"
)

// galleryRepository implements the GalleryRepository interface
type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository instance
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

// Create creates a new gallery
func (r *galleryRepository) Create(gallery *models.Gallery) error {
	return r.db.Create(gallery).Error
}

// GetByID retrieves a gallery with its images
func (r *galleryRepository) GetByID(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).First(&gallery, id).Error
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

// GetByUserID retrieves all galleries of a user
func (r *galleryRepository) GetByUserID(userID uint) ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&galleries).Error
	return galleries, err
}

// Update saves gallery changes
func (r *galleryRepository) Update(gallery *models.Gallery) error {
	return r.db.Save(gallery).Error
}

// Delete soft deletes a gallery and removes its image entries
func (r *galleryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Gallery{}, id).Error
	})
}

// AddImage appends an image entry to a gallery
func (r *galleryRepository) AddImage(image *models.GalleryImage) error {
	return r.db.Create(image).Error
}

// RemoveImage removes one image entry from a gallery
func (r *galleryRepository) RemoveImage(galleryID, imageID uint) error {
	return r.db.Where("gallery_id = ? AND id = ?", galleryID, imageID).Delete(&models.GalleryImage{}).Error
}

// GetImages retrieves the image entries of a gallery in display order
func (r *galleryRepository) GetImages(galleryID uint) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.Where("gallery_id = ?", galleryID).Order("position ASC, id ASC").Find(&images).Error
	return images, err
}

// CountByUserID returns the number of galleries a user owns
func (r *galleryRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Gallery{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

package repository

import (
	"github.com/castboard/castboard/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUUID(uuid string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// ProfileRepository defines the interface for sedcard profile operations
type ProfileRepository interface {
	GetByUserID(userID uint) (*models.Profile, error)
	Update(profile *models.Profile) error
}

// GalleryRepository defines the interface for gallery operations
type GalleryRepository interface {
	Create(gallery *models.Gallery) error
	GetByID(id uint) (*models.Gallery, error)
	GetByUserID(userID uint) ([]models.Gallery, error)
	Update(gallery *models.Gallery) error
	Delete(id uint) error
	AddImage(image *models.GalleryImage) error
	RemoveImage(galleryID, imageID uint) error
	GetImages(galleryID uint) ([]models.GalleryImage, error)
	CountByUserID(userID uint) (int64, error)
}

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Booking, error)
	Update(booking *models.Booking) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
}

// NotificationRepository defines the interface for in-app notifications
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(id, userID uint) error
}

// WebsiteRepository defines the interface for sedcard-website configuration
type WebsiteRepository interface {
	GetByUserID(userID uint) (*models.WebsiteConfig, error)
	GetBySubdomain(subdomain string) (*models.WebsiteConfig, error)
	Save(config *models.WebsiteConfig) error
	SubdomainTaken(subdomain string, exceptUserID uint) (bool, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Profile      ProfileRepository
	Gallery      GalleryRepository
	Booking      BookingRepository
	Notification NotificationRepository
	Website      WebsiteRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Profile:      NewProfileRepository(db),
		Gallery:      NewGalleryRepository(db),
		Booking:      NewBookingRepository(db),
		Notification: NewNotificationRepository(db),
		Website:      NewWebsiteRepository(db),
	}
}

package billing

import (
	"context"

	"github.com/castboard/castboard/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the billing service. Transact
// runs a function against a repository bound to one database transaction;
// every write of the provisioning pipeline goes through it.
type Repository interface {
	Transact(ctx context.Context, fn func(Repository) error) error

	ApplicationBySessionRef(ref string) (*models.Application, error)
	ApplicationBySessionRefForUpdate(ref string) (*models.Application, error)
	CreateApplication(app *models.Application) error
	SaveApplication(app *models.Application) error

	UserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	CreateProfile(profile *models.Profile) error

	CreateBilling(billing *models.Billing) error
	BillingByUserID(userID uint) (*models.Billing, error)
	BillingByUserIDForUpdate(userID uint) (*models.Billing, error)
	BillingBySubscriptionRefForUpdate(ref string) (*models.Billing, error)
	SaveBilling(billing *models.Billing) error

	FindOrCreateDefaultTenant() (*models.Tenant, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transact(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) ApplicationBySessionRef(ref string) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("checkout_session_ref = ?", ref).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *gormRepository) ApplicationBySessionRefForUpdate(ref string) (*models.Application, error) {
	var app models.Application
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("checkout_session_ref = ?", ref).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *gormRepository) CreateApplication(app *models.Application) error {
	return r.db.Create(app).Error
}

func (r *gormRepository) SaveApplication(app *models.Application) error {
	return r.db.Save(app).Error
}

func (r *gormRepository) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *gormRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *gormRepository) CreateBilling(billing *models.Billing) error {
	return r.db.Create(billing).Error
}

func (r *gormRepository) BillingByUserID(userID uint) (*models.Billing, error) {
	var billing models.Billing
	if err := r.db.Where("user_id = ?", userID).First(&billing).Error; err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *gormRepository) BillingByUserIDForUpdate(userID uint) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *gormRepository) BillingBySubscriptionRefForUpdate(ref string) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("subscription_ref = ?", ref).
		First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *gormRepository) SaveBilling(billing *models.Billing) error {
	return r.db.Save(billing).Error
}

func (r *gormRepository) FindOrCreateDefaultTenant() (*models.Tenant, error) {
	return models.FindOrCreateDefaultTenant(r.db)
}

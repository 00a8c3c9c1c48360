package repository

import (
	"context"

	"github.com/spendlens/spendlens/internal/party/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertVendor(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) (bool, error) {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "tax_id"}},
		DoNothing: true,
	}).Create(vendor)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindVendorByNaturalKey(ctx context.Context, db *gorm.DB, name, taxID string) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := db.WithContext(ctx).
		Where("name = ? AND tax_id = ?", name, taxID).
		First(&vendor).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repo) UpsertCustomer(ctx context.Context, db *gorm.DB, customer *domain.Customer) (bool, error) {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(customer)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindCustomerByName(ctx context.Context, db *gorm.DB, name string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

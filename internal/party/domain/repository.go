package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// UpsertVendor inserts the vendor unless one with the same (name, tax_id)
	// already exists. Reports whether a row was inserted.
	UpsertVendor(ctx context.Context, db *gorm.DB, vendor *Vendor) (bool, error)
	FindVendorByNaturalKey(ctx context.Context, db *gorm.DB, name, taxID string) (*Vendor, error)

	// UpsertCustomer inserts the customer unless one with the same name already
	// exists. Reports whether a row was inserted.
	UpsertCustomer(ctx context.Context, db *gorm.DB, customer *Customer) (bool, error)
	FindCustomerByName(ctx context.Context, db *gorm.DB, name string) (*Customer, error)
}

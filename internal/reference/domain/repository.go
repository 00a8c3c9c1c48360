package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	EnsureOrganization(ctx context.Context, db *gorm.DB, org *Organization) error
	EnsureDepartment(ctx context.Context, db *gorm.DB, dept *Department) error
	EnsureUser(ctx context.Context, db *gorm.DB, user *User) error
}

package repository

import (
	"context"

	"github.com/spendlens/spendlens/internal/reference/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) EnsureOrganization(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(org).Error
}

func (r *repo) EnsureDepartment(ctx context.Context, db *gorm.DB, dept *domain.Department) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(dept).Error
}

func (r *repo) EnsureUser(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(user).Error
}

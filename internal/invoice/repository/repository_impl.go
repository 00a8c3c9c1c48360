package repository

import (
	"context"

	"github.com/spendlens/spendlens/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertGraph(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	if err := db.WithContext(ctx).Omit("LineItems", "Payment").Create(invoice).Error; err != nil {
		return err
	}
	for i := range invoice.LineItems {
		invoice.LineItems[i].InvoiceID = invoice.ID
		if err := db.WithContext(ctx).Create(&invoice.LineItems[i]).Error; err != nil {
			return err
		}
	}
	if invoice.Payment != nil {
		invoice.Payment.InvoiceID = invoice.ID
		if err := db.WithContext(ctx).Create(invoice.Payment).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ExistsByDocumentID(ctx context.Context, db *gorm.DB, documentID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

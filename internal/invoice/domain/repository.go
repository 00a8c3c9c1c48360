package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// InsertGraph persists an invoice together with its line items and optional
	// payment. Callers wrap it in a transaction so a partial failure cannot
	// leave orphaned children.
	InsertGraph(ctx context.Context, db *gorm.DB, invoice *Invoice) error

	// ExistsByDocumentID reports whether an invoice for the external document id
	// was already ingested.
	ExistsByDocumentID(ctx context.Context, db *gorm.DB, documentID string) (bool, error)
}

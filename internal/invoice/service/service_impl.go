package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/invoice/domain"
	partydomain "github.com/spendlens/spendlens/internal/party/domain"
	"github.com/spendlens/spendlens/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),
	}
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	page := req.Pagination.Normalize(defaultPageSize, maxPageSize)

	sortOrder := strings.ToLower(strings.TrimSpace(req.SortOrder))
	switch sortOrder {
	case "":
		sortOrder = domain.SortOrderDesc
	case domain.SortOrderAsc, domain.SortOrderDesc:
	default:
		return domain.ListInvoiceResponse{}, domain.ErrInvalidSortOrder
	}

	var orderExpr string
	switch strings.TrimSpace(req.SortBy) {
	case "", domain.SortByDate:
		orderExpr = "invoices.invoice_date " + sortOrder
	case domain.SortByAmount:
		orderExpr = "invoices.total " + sortOrder
	case domain.SortByVendor:
		orderExpr = "vendors.name " + sortOrder
	default:
		return domain.ListInvoiceResponse{}, domain.ErrInvalidSortBy
	}

	if status := strings.TrimSpace(req.Status); status != "" && !validStatus(status) {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
	}

	filtered := func() *gorm.DB {
		stmt := s.db.WithContext(ctx).
			Model(&domain.Invoice{}).
			Joins("LEFT JOIN vendors ON vendors.id = invoices.vendor_id")

		if search := strings.TrimSpace(req.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			stmt = stmt.Where(
				"(LOWER(invoices.invoice_number) LIKE ? OR LOWER(vendors.name) LIKE ?)",
				pattern, pattern,
			)
		}
		if req.VendorID != nil {
			stmt = stmt.Where("invoices.vendor_id = ?", *req.VendorID)
		}
		if status := strings.TrimSpace(req.Status); status != "" {
			stmt = stmt.Where("invoices.status = ?", status)
		}
		if req.StartDate != nil {
			stmt = stmt.Where("invoices.invoice_date >= ?", *req.StartDate)
		}
		if req.EndDate != nil {
			stmt = stmt.Where("invoices.invoice_date <= ?", *req.EndDate)
		}
		return stmt
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	var invoices []domain.Invoice
	err := filtered().
		Select("invoices.*").
		Order(orderExpr).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Preload("Payment").
		Find(&invoices).Error
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	vendorNames, err := s.vendorNames(ctx, invoices)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	rows := make([]domain.InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		row := domain.InvoiceRow{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate,
			Status:        inv.Status,
			IsValidated:   inv.IsValidated,
		}
		if inv.Total != nil {
			row.Total = *inv.Total
		}
		if inv.VendorID != nil {
			if name, ok := vendorNames[*inv.VendorID]; ok {
				row.VendorName = &name
			}
		}
		if inv.Payment != nil {
			row.DueDate = inv.Payment.DueDate
		}
		rows = append(rows, row)
	}

	return domain.ListInvoiceResponse{
		Invoices:   rows,
		Pagination: pagination.BuildPageInfo(total, page),
	}, nil
}

func validStatus(status string) bool {
	switch domain.InvoiceStatus(status) {
	case domain.InvoiceStatusPending,
		domain.InvoiceStatusProcessed,
		domain.InvoiceStatusValidated,
		domain.InvoiceStatusPaid:
		return true
	default:
		return false
	}
}

func (s *Service) vendorNames(ctx context.Context, invoices []domain.Invoice) (map[snowflake.ID]string, error) {
	ids := make([]snowflake.ID, 0, len(invoices))
	seen := make(map[snowflake.ID]struct{}, len(invoices))
	for _, inv := range invoices {
		if inv.VendorID == nil {
			continue
		}
		if _, ok := seen[*inv.VendorID]; ok {
			continue
		}
		seen[*inv.VendorID] = struct{}{}
		ids = append(ids, *inv.VendorID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var vendors []partydomain.Vendor
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error; err != nil {
		return nil, err
	}
	names := make(map[snowflake.ID]string, len(vendors))
	for _, v := range vendors {
		names[v.ID] = v.Name
	}
	return names, nil
}

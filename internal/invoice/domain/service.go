package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/pkg/db/pagination"
)

// Sort keys accepted by the listing endpoint.
const (
	SortByDate   = "date"
	SortByAmount = "amount"
	SortByVendor = "vendor"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

type ListInvoiceRequest struct {
	pagination.Pagination
	Search    string     `form:"search"`
	VendorID  *snowflake.ID
	Status    string     `form:"status"`
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// InvoiceRow is the listing projection: invoice fields plus the joined vendor
// name and payment due date.
type InvoiceRow struct {
	ID            snowflake.ID  `json:"id"`
	InvoiceNumber *string       `json:"invoiceNumber"`
	VendorName    *string       `json:"vendorName"`
	InvoiceDate   *time.Time    `json:"invoiceDate"`
	DueDate       *time.Time    `json:"dueDate"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status"`
	IsValidated   bool          `json:"isValidated"`
}

type ListInvoiceResponse struct {
	Invoices   []InvoiceRow        `json:"invoices"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
}

var (
	ErrInvalidSortBy    = errors.New("invalid_sort_by")
	ErrInvalidSortOrder = errors.New("invalid_sort_order")
	ErrInvalidStatus    = errors.New("invalid_status")
)

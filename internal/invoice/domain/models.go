// Package domain contains persistence models for the invoice graph.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusProcessed InvoiceStatus = "PROCESSED"
	InvoiceStatusValidated InvoiceStatus = "VALIDATED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
)

// RecognizedStatuses are the statuses that count toward spend analytics.
var RecognizedStatuses = []InvoiceStatus{
	InvoiceStatusProcessed,
	InvoiceStatusValidated,
	InvoiceStatusPaid,
}

// Invoice is the root of the ingested entity graph, one per source record.
// DocumentID is the stable external identifier of the source record.
type Invoice struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	DocumentID     string            `gorm:"type:text;not null;index:ix_invoices_document_id" json:"documentId"`
	FileName       string            `gorm:"type:text;not null" json:"fileName"`
	FilePath       *string           `gorm:"type:text" json:"filePath"`
	FileSize       *int64            `json:"fileSize"`
	FileType       *string           `gorm:"type:text" json:"fileType"`
	Status         InvoiceStatus     `gorm:"type:text;not null;default:'PROCESSED';index" json:"status"`
	InvoiceNumber  *string           `gorm:"type:text" json:"invoiceNumber"`
	InvoiceDate    *time.Time        `gorm:"index" json:"invoiceDate"`
	DeliveryDate   *time.Time        `json:"deliveryDate"`
	DocumentType   *string           `gorm:"type:text" json:"documentType"`
	SubTotal       *float64          `json:"subTotal"`
	TotalTax       *float64          `json:"totalTax"`
	Total          *float64          `json:"total"`
	Currency       string            `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	IsValidated    bool              `gorm:"not null;default:false" json:"isValidated"`
	OrganizationID string            `gorm:"type:text;not null;index" json:"organizationId"`
	DepartmentID   string            `gorm:"type:text;not null;index" json:"departmentId"`
	VendorID       *snowflake.ID     `gorm:"index" json:"vendorId"`
	CustomerID     *snowflake.ID     `gorm:"index" json:"customerId"`
	UploadedByID   *string           `gorm:"type:text" json:"uploadedById"`
	AssignedToID   *string           `gorm:"type:text" json:"assignedToId"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lineItems,omitempty"`
	Payment   *Payment   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem is one extracted line on an invoice.
type LineItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoiceId"`
	SrNo        *int         `json:"srNo"`
	Description *string      `gorm:"type:text" json:"description"`
	Category    *string      `gorm:"type:text" json:"category"`
	Quantity    *float64     `json:"quantity"`
	UnitPrice   *float64     `json:"unitPrice"`
	TotalPrice  *float64     `json:"totalPrice"`
	Sachkonto   *string      `gorm:"type:text" json:"sachkonto"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "line_items" }

// Payment carries the payment terms extracted for an invoice, at most one per
// invoice, created only when the payload held any payment signal.
type Payment struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID          snowflake.ID `gorm:"not null;uniqueIndex:ux_payments_invoice_id" json:"invoiceId"`
	DueDate            *time.Time   `gorm:"index" json:"dueDate"`
	PaymentTerms       *string      `gorm:"type:text" json:"paymentTerms"`
	BankAccountNumber  *string      `gorm:"type:text" json:"bankAccountNumber"`
	BIC                *string      `gorm:"type:text;column:bic" json:"bic"`
	AccountName        *string      `gorm:"type:text" json:"accountName"`
	NetDays            *float64     `json:"netDays"`
	DiscountPercentage *float64     `json:"discountPercentage"`
	DiscountDays       *float64     `json:"discountDays"`
	DiscountDueDate    *time.Time   `json:"discountDueDate"`
	DiscountedTotal    *float64     `json:"discountedTotal"`
	IsPaid             bool         `gorm:"not null;default:false" json:"isPaid"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

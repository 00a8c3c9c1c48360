// Package domain contains persistence models for invoice counterparties.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vendor is the issuing party of an invoice. Identity is the compound natural
// key (name, tax id). TaxID stores the empty string when the source carried no
// tax id, so the compound unique index stays enforceable and the find-or-create
// path collapses into a single atomic upsert; two vendors sharing a name but
// differing tax id (including one absent) are distinct entities.
type Vendor struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_vendors_name_tax_id" json:"name"`
	TaxID       string       `gorm:"type:text;not null;default:'';uniqueIndex:ux_vendors_name_tax_id" json:"taxId"`
	Address     *string      `gorm:"type:text" json:"address"`
	PartyNumber *string      `gorm:"type:text" json:"partyNumber"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Vendor) TableName() string { return "vendors" }

// HasTaxID reports whether the vendor carries a real tax id.
func (v Vendor) HasTaxID() bool { return v.TaxID != "" }

// Customer is the receiving party of an invoice, unique per name.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_customers_name" json:"name"`
	Address   *string      `gorm:"type:text" json:"address"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// noTaxIDSentinel keeps dedup keys for vendors without a tax id distinct from
// any real tax id value.
const noTaxIDSentinel = "NO_TAX_ID"

// VendorKey builds the run-scoped deduplication key for a vendor.
func VendorKey(name, taxID string) string {
	if taxID == "" {
		return name + "|" + noTaxIDSentinel
	}
	return name + "|" + taxID
}

// Package domain contains persistence models for upstream reference entities.
// Their primary keys are the raw identifiers carried by extraction records.
package domain

import "time"

// Organization owns departments and invoices.
type Organization struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Department belongs to one organization.
type Department struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	Name           string    `gorm:"type:text;not null" json:"name"`
	OrganizationID string    `gorm:"type:text;not null;index" json:"organizationId"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Department) TableName() string { return "departments" }

// User is referenced as uploader or assignee of an invoice.
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

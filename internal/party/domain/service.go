package domain

import (
	"context"
	"errors"
)

// VendorInput carries the vendor fields extracted from a record's payload.
// TaxID is empty when the payload carried none.
type VendorInput struct {
	Name        string
	TaxID       string
	Address     *string
	PartyNumber *string
}

// CustomerInput carries the customer fields extracted from a record's payload.
type CustomerInput struct {
	Name    string
	Address *string
}

// Service resolves counterparties by natural key. Resolution is atomic: two
// concurrent resolutions of the same key yield the same persisted entity.
type Service interface {
	ResolveVendor(ctx context.Context, in VendorInput) (Vendor, error)
	ResolveCustomer(ctx context.Context, in CustomerInput) (Customer, error)
}

var (
	ErrInvalidName = errors.New("invalid_party_name")
	ErrNotFound    = errors.New("party_not_found")
)

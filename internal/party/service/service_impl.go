package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/party/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("party.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// ResolveVendor finds or creates the vendor for the given natural key. The
// insert is a conditional upsert on (name, tax_id), so concurrent resolutions
// of the same key converge on one row; the follow-up read observes whichever
// insert won.
func (s *Service) ResolveVendor(ctx context.Context, in domain.VendorInput) (domain.Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Vendor{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	vendor := domain.Vendor{
		ID:          s.genID.Generate(),
		Name:        name,
		TaxID:       strings.TrimSpace(in.TaxID),
		Address:     in.Address,
		PartyNumber: in.PartyNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	inserted, err := s.repo.UpsertVendor(ctx, s.db, &vendor)
	if err != nil {
		return domain.Vendor{}, err
	}
	if inserted {
		return vendor, nil
	}

	existing, err := s.repo.FindVendorByNaturalKey(ctx, s.db, vendor.Name, vendor.TaxID)
	if err != nil {
		return domain.Vendor{}, err
	}
	if existing == nil {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return *existing, nil
}

// ResolveCustomer finds or creates the customer for the given name.
func (s *Service) ResolveCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		Name:      name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	inserted, err := s.repo.UpsertCustomer(ctx, s.db, &customer)
	if err != nil {
		return domain.Customer{}, err
	}
	if inserted {
		return customer, nil
	}

	existing, err := s.repo.FindCustomerByName(ctx, s.db, customer.Name)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *existing, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("reference.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) EnsureOrganization(ctx context.Context, id string) (domain.Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Organization{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	org := domain.Organization{
		ID:        id,
		Name:      placeholderName("Organization", id),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.EnsureOrganization(ctx, s.db, &org); err != nil {
		return domain.Organization{}, err
	}
	return org, nil
}

func (s *Service) EnsureDepartment(ctx context.Context, id, organizationID string) (domain.Department, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Department{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	dept := domain.Department{
		ID:             id,
		Name:           placeholderName("Department", id),
		OrganizationID: strings.TrimSpace(organizationID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.EnsureDepartment(ctx, s.db, &dept); err != nil {
		return domain.Department{}, err
	}
	return dept, nil
}

func (s *Service) EnsureUser(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	user := domain.User{
		ID:        id,
		Name:      placeholderName("User", id),
		Email:     fmt.Sprintf("user-%s@example.com", idPrefix(id)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.EnsureUser(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// placeholderName derives a readable name from an identifier prefix. The
// upstream records carry no richer names for reference entities.
func placeholderName(kind, id string) string {
	return fmt.Sprintf("%s %s", kind, idPrefix(id))
}

func idPrefix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package domain

import (
	"context"
	"errors"
)

// Service resolves reference entities from raw identifiers. All operations are
// idempotent: resolving the same identifier twice yields the same entity.
type Service interface {
	EnsureOrganization(ctx context.Context, id string) (Organization, error)
	EnsureDepartment(ctx context.Context, id, organizationID string) (Department, error)
	EnsureUser(ctx context.Context, id string) (User, error)
}

var ErrInvalidID = errors.New("invalid_reference_id")

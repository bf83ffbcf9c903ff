package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *Tenant) error

	// Update updates an existing tenant
	Update(ctx context.Context, tenant *Tenant) error

	// Delete deletes a tenant by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByCode finds a tenant by its registration code
	FindByCode(ctx context.Context, code string) (*Tenant, error)

	// FindAll returns all tenants ordered by name
	FindAll(ctx context.Context) ([]*Tenant, error)

	// ExistsByCode checks if a registration code already exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

package identity

import (
	"context"

	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService handles company administration. All operations are
// restricted to accountants.
type TenantService struct {
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

// NewTenantService creates a new company administration service
func NewTenantService(tenantRepo identity.TenantRepository, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// CreateTenant registers a new company. The registration code must be unique.
func (s *TenantService) CreateTenant(ctx context.Context, principal *identity.Principal, input CreateTenantInput) (*TenantDetails, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	tenant, err := identity.NewTenant(input.Name, input.RegistrationCode)
	if err != nil {
		return nil, err
	}

	if input.ContactEmail != "" {
		if err := tenant.SetContactEmail(input.ContactEmail); err != nil {
			return nil, err
		}
	}
	if err := tenant.SetAddress(input.Address); err != nil {
		return nil, err
	}
	if err := tenant.SetPhone(input.Phone); err != nil {
		return nil, err
	}

	exists, err := s.tenantRepo.ExistsByCode(ctx, tenant.RegistrationCode)
	if err != nil {
		s.logger.Error("Registration code uniqueness check failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A company with this registration code already exists")
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		s.logger.Error("Failed to create company", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Company created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("registration_code", tenant.RegistrationCode))

	details := toTenantDetails(tenant)
	return &details, nil
}

// GetTenant returns a single company
func (s *TenantService) GetTenant(ctx context.Context, principal *identity.Principal, tenantID uuid.UUID) (*TenantDetails, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	details := toTenantDetails(tenant)
	return &details, nil
}

// ListTenants returns all registered companies
func (s *TenantService) ListTenants(ctx context.Context, principal *identity.Principal) ([]TenantDetails, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	tenants, err := s.tenantRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]TenantDetails, 0, len(tenants))
	for _, tenant := range tenants {
		details = append(details, toTenantDetails(tenant))
	}
	return details, nil
}

// ActivateTenant re-enables a deactivated company
func (s *TenantService) ActivateTenant(ctx context.Context, principal *identity.Principal, tenantID uuid.UUID) error {
	return s.setActive(ctx, principal, tenantID, true)
}

// DeactivateTenant disables a company. Its users are locked out on their
// next request.
func (s *TenantService) DeactivateTenant(ctx context.Context, principal *identity.Principal, tenantID uuid.UUID) error {
	return s.setActive(ctx, principal, tenantID, false)
}

func (s *TenantService) setActive(ctx context.Context, principal *identity.Principal, tenantID uuid.UUID, active bool) error {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}

	if active {
		err = tenant.Activate()
	} else {
		err = tenant.Deactivate()
	}
	if err != nil {
		return err
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		s.logger.Error("Failed to update company activation", zap.Error(err))
		return err
	}

	s.logger.Info("Company activation changed",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("active", active))
	return nil
}

package identity

import (
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRef is a resolved snapshot of the principal's tenant
type TenantRef struct {
	ID   uuid.UUID
	Name string
}

// Principal is the resolved caller identity for a single request.
// It is produced by the identity resolver from live account state and
// passed explicitly into every operation that needs authorization.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	Role        Role
	Tenant      *TenantRef // set iff Role == RoleCompany
}

// IsAccountant reports whether the principal is a firm accountant
func (p *Principal) IsAccountant() bool {
	return p.Role == RoleAccountant
}

// IsCompany reports whether the principal is a client-company user
func (p *Principal) IsCompany() bool {
	return p.Role == RoleCompany
}

// Authorize checks that the principal holds one of the allowed roles.
// This is the single definition point for role checks; handlers and
// services must not re-derive role logic.
func Authorize(p *Principal, roles ...Role) error {
	if p == nil {
		return shared.ErrUnauthorized
	}
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return shared.ErrForbidden
}

// AuthorizeTenantAccess checks that the principal may act on resources
// belonging to the given tenant. Accountants may access every tenant;
// company users only their own.
func AuthorizeTenantAccess(p *Principal, tenantID uuid.UUID) error {
	if p == nil {
		return shared.ErrUnauthorized
	}
	if p.Role == RoleAccountant {
		return nil
	}
	if p.Tenant == nil {
		// A company principal without a tenant is structurally invalid.
		return shared.NewDomainError("FORBIDDEN", "Company user is not associated with a company")
	}
	if p.Tenant.ID != tenantID {
		return shared.NewDomainError("FORBIDDEN", "Access to this company's resources is not allowed")
	}
	return nil
}

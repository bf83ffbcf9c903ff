package identity

import (
	"time"

	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains credentials for authentication
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the issued token and the authenticated identity
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// TenantInfo is the company reference exposed to clients
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserInfo is the identity view exposed to clients
type UserInfo struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role"`
	Active      bool          `json:"active"`
	Tenant      *TenantInfo   `json:"tenant,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PrincipalInfo maps a resolved principal to its client view
func PrincipalInfo(p *identity.Principal) UserInfo {
	info := UserInfo{
		ID:          p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		Active:      true,
	}
	if p.Tenant != nil {
		info.Tenant = &TenantInfo{ID: p.Tenant.ID, Name: p.Tenant.Name}
	}
	return info
}

// CreateUserInput contains data for provisioning a user account
type CreateUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        identity.Role
	TenantID    *uuid.UUID
}

// ListUsersInput contains optional filters for listing users
type ListUsersInput struct {
	Role     *identity.Role
	TenantID *uuid.UUID
	Active   *bool
	Page     int
	PageSize int
}

// UserListResult contains a page of users and the total count
type UserListResult struct {
	Users []UserInfo
	Total int64
}

// CreateTenantInput contains data for registering a company
type CreateTenantInput struct {
	Name             string
	RegistrationCode string
	Address          string
	Phone            string
	ContactEmail     string
}

// TenantDetails is the full company view exposed to accountants
type TenantDetails struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	RegistrationCode string    `json:"registration_code"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	ContactEmail     string    `json:"contact_email,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

func toUserInfo(user *identity.User, tenant *identity.Tenant) UserInfo {
	info := UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Active:      user.Active,
		CreatedAt:   user.CreatedAt,
	}
	if tenant != nil {
		info.Tenant = &TenantInfo{ID: tenant.ID, Name: tenant.Name}
	}
	return info
}

func toTenantDetails(tenant *identity.Tenant) TenantDetails {
	return TenantDetails{
		ID:               tenant.ID,
		Name:             tenant.Name,
		RegistrationCode: tenant.RegistrationCode,
		Address:          tenant.Address,
		Phone:            tenant.Phone,
		ContactEmail:     tenant.ContactEmail,
		Active:           tenant.Active,
		CreatedAt:        tenant.CreatedAt,
	}
}

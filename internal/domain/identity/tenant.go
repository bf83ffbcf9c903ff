package identity

import (
	"regexp"
	"strings"

	"github.com/cabinet/backend/internal/domain/shared"
)

// Tenant represents a client company managed by the accounting firm.
// It is the aggregate root for company-related operations.
type Tenant struct {
	shared.BaseAggregateRoot
	Name             string // legal name (raison sociale)
	RegistrationCode string // 15-digit company identifier, globally unique
	Address          string
	Phone            string
	ContactEmail     string
	Active           bool
}

var registrationCodeRegex = regexp.MustCompile(`^[0-9]{15}$`)

// NewTenant creates a new tenant with required fields
func NewTenant(name, registrationCode string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	registrationCode = strings.TrimSpace(registrationCode)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company name cannot exceed 200 characters")
	}
	if !registrationCodeRegex.MatchString(registrationCode) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Registration code must be exactly 15 digits")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		RegistrationCode:  registrationCode,
		Active:            true,
	}, nil
}

// SetContactEmail sets the tenant's contact email
func (t *Tenant) SetContactEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	t.ContactEmail = email
	t.Touch()
	t.IncrementVersion()

	return nil
}

// SetAddress sets the tenant's postal address
func (t *Tenant) SetAddress(address string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_INPUT", "Address cannot exceed 500 characters")
	}

	t.Address = strings.TrimSpace(address)
	t.Touch()
	t.IncrementVersion()

	return nil
}

// SetPhone sets the tenant's phone number
func (t *Tenant) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "Phone cannot exceed 50 characters")
	}

	t.Phone = strings.TrimSpace(phone)
	t.Touch()
	t.IncrementVersion()

	return nil
}

// Activate re-enables the tenant
func (t *Tenant) Activate() error {
	if t.Active {
		return shared.NewDomainError("INVALID_STATE", "Company is already active")
	}

	t.Active = true
	t.Touch()
	t.IncrementVersion()

	return nil
}

// Deactivate disables the tenant
func (t *Tenant) Deactivate() error {
	if !t.Active {
		return shared.NewDomainError("INVALID_STATE", "Company is already deactivated")
	}

	t.Active = false
	t.Touch()
	t.IncrementVersion()

	return nil
}

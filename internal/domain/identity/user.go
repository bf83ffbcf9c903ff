package identity

import (
	"regexp"
	"strings"

	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the role of a user
type Role string

const (
	// RoleCompany is a client-company user, bound to exactly one tenant
	RoleCompany Role = "company"
	// RoleAccountant is a firm accountant with access to every tenant
	RoleAccountant Role = "accountant"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleCompany || r == RoleAccountant
}

// Password cost for bcrypt
const bcryptCost = 12

// User represents an authenticated principal in the system.
// It is the aggregate root for user-related operations.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	TenantID     *uuid.UUID // set iff Role == RoleCompany
	Active       bool
}

// NewCompanyUser creates a new active user bound to a tenant
func NewCompanyUser(email, password, displayName string, tenantID uuid.UUID) (*User, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company user requires a company")
	}
	user, err := newUser(email, password, displayName, RoleCompany)
	if err != nil {
		return nil, err
	}
	user.TenantID = &tenantID
	return user, nil
}

// NewAccountantUser creates a new active accountant user.
// Accountants belong to the firm itself and never carry a tenant.
func NewAccountantUser(email, password, displayName string) (*User, error) {
	return newUser(email, password, displayName, RoleAccountant)
}

func newUser(email, password, displayName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Display name cannot be empty")
	}
	if len(displayName) > 200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Display name cannot exceed 200 characters")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		DisplayName:       displayName,
		Role:              role,
		Active:            true,
	}, nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetDisplayName sets the user's display name
func (u *User) SetDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Display name cannot be empty")
	}
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Display name cannot exceed 200 characters")
	}

	u.DisplayName = displayName
	u.Touch()
	u.IncrementVersion()

	return nil
}

// Activate activates the user
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}

	u.Active = true
	u.Touch()
	u.IncrementVersion()

	return nil
}

// Deactivate deactivates the user. Issued tokens stay cryptographically
// valid; the per-request identity resolution rejects the account instead.
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("INVALID_STATE", "User is already deactivated")
	}

	u.Active = false
	u.Touch()
	u.IncrementVersion()

	return nil
}

// Validation functions

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_INPUT", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_INPUT", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_INPUT", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_INPUT", "Password cannot exceed 128 characters")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

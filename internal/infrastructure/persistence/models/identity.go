package models

import (
	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// TenantModel is the persistence model for companies
type TenantModel struct {
	AggregateModel
	Name             string `gorm:"size:255;not null"`
	RegistrationCode string `gorm:"size:15;not null;uniqueIndex"`
	Address          string `gorm:"size:500"`
	Phone            string `gorm:"size:50"`
	ContactEmail     string `gorm:"size:255"`
	Active           bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for TenantModel
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts TenantModel to a domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		RegistrationCode:  m.RegistrationCode,
		Address:           m.Address,
		Phone:             m.Phone,
		ContactEmail:      m.ContactEmail,
		Active:            m.Active,
	}
}

// TenantModelFromDomain creates a TenantModel from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	model := &TenantModel{
		Name:             t.Name,
		RegistrationCode: t.RegistrationCode,
		Address:          t.Address,
		Phone:            t.Phone,
		ContactEmail:     t.ContactEmail,
		Active:           t.Active,
	}
	model.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return model
}

// UserModel is the persistence model for user accounts
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string     `gorm:"size:255;not null"`
	DisplayName  string     `gorm:"size:255;not null"`
	Role         string     `gorm:"size:20;not null;index"`
	TenantID     *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              identity.Role(m.Role),
		TenantID:          m.TenantID,
		Active:            m.Active,
	}
}

// UserModelFromDomain creates a UserModel from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	model := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		Role:         string(u.Role),
		TenantID:     u.TenantID,
		Active:       u.Active,
	}
	model.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return model
}

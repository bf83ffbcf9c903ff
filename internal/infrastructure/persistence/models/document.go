package models

import (
	"time"

	"github.com/cabinet/backend/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for accounting documents
type DocumentModel struct {
	AggregateModel
	BusinessID       string          `gorm:"size:100;not null;uniqueIndex"`
	Type             string          `gorm:"size:30;not null"`
	Category         string          `gorm:"size:255;not null"`
	EffectiveDate    time.Time       `gorm:"not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Supplier         string          `gorm:"size:255"`
	StorageKey       string          `gorm:"size:512"`
	OriginalFilename string          `gorm:"size:255"`
	FiscalYear       string          `gorm:"size:10;not null;index"`
	Status           string          `gorm:"size:20;not null;index;default:'pending'"`
	ReviewComment    *string         `gorm:"size:1000"`
	ReviewedAt       *time.Time
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for DocumentModel
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts DocumentModel to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	return &document.Document{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BusinessID:        m.BusinessID,
		Type:              document.DocumentType(m.Type),
		Category:          m.Category,
		EffectiveDate:     m.EffectiveDate,
		Amount:            m.Amount,
		Supplier:          m.Supplier,
		StorageKey:        m.StorageKey,
		OriginalFilename:  m.OriginalFilename,
		FiscalYear:        m.FiscalYear,
		Status:            document.DocumentStatus(m.Status),
		ReviewComment:     m.ReviewComment,
		ReviewedAt:        m.ReviewedAt,
		TenantID:          m.TenantID,
	}
}

// DocumentModelFromDomain creates a DocumentModel from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	model := &DocumentModel{
		BusinessID:       d.BusinessID,
		Type:             string(d.Type),
		Category:         d.Category,
		EffectiveDate:    d.EffectiveDate,
		Amount:           d.Amount,
		Supplier:         d.Supplier,
		StorageKey:       d.StorageKey,
		OriginalFilename: d.OriginalFilename,
		FiscalYear:       d.FiscalYear,
		Status:           string(d.Status),
		ReviewComment:    d.ReviewComment,
		ReviewedAt:       d.ReviewedAt,
		TenantID:         d.TenantID,
	}
	model.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return model
}

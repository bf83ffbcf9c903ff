package document

import (
	"strings"
	"time"

	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType represents the accounting nature of a document
type DocumentType string

const (
	TypePurchaseInvoice DocumentType = "purchase_invoice"
	TypeSalesInvoice    DocumentType = "sales_invoice"
	TypeReceipt         DocumentType = "receipt"
	TypeBankStatement   DocumentType = "bank_statement"
)

// IsValid reports whether the type is one of the known document types
func (t DocumentType) IsValid() bool {
	switch t {
	case TypePurchaseInvoice, TypeSalesInvoice, TypeReceipt, TypeBankStatement:
		return true
	}
	return false
}

// DocumentStatus represents the review status of a document
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

const maxReviewCommentLength = 1000

// Document represents a financial document submitted by a client company
// for accountant review. It is the aggregate root for the review lifecycle.
type Document struct {
	shared.BaseAggregateRoot
	BusinessID       string // human-entered piece number, globally unique, immutable
	Type             DocumentType
	Category         string
	EffectiveDate    time.Time
	Amount           decimal.Decimal
	Supplier         string
	StorageKey       string // opaque key into file storage
	OriginalFilename string
	FiscalYear       string
	Status           DocumentStatus
	ReviewComment    *string
	ReviewedAt       *time.Time
	TenantID         uuid.UUID // owning company, immutable
}

// NewDocument creates a new document in pending status.
// The file is attached separately once storage has accepted it.
func NewDocument(
	businessID string,
	docType DocumentType,
	category string,
	effectiveDate time.Time,
	amount decimal.Decimal,
	supplier string,
	fiscalYear string,
	tenantID uuid.UUID,
) (*Document, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Piece number cannot be empty")
	}
	if len(businessID) > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Piece number cannot exceed 100 characters")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown document type")
	}
	if strings.TrimSpace(category) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Accounting category cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be strictly positive")
	}
	if effectiveDate.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document date cannot be in the future")
	}
	if strings.TrimSpace(fiscalYear) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fiscal year cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document requires a company")
	}

	return &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BusinessID:        businessID,
		Type:              docType,
		Category:          strings.TrimSpace(category),
		EffectiveDate:     effectiveDate,
		Amount:            amount,
		Supplier:          strings.TrimSpace(supplier),
		FiscalYear:        strings.TrimSpace(fiscalYear),
		Status:            StatusPending,
		TenantID:          tenantID,
	}, nil
}

// AttachFile records the stored file for this document
func (d *Document) AttachFile(storageKey, originalFilename string) error {
	if storageKey == "" {
		return shared.NewDomainError("INVALID_INPUT", "Storage key cannot be empty")
	}
	if originalFilename == "" {
		return shared.NewDomainError("INVALID_INPUT", "Original filename cannot be empty")
	}

	d.StorageKey = storageKey
	d.OriginalFilename = originalFilename
	d.Touch()
	d.IncrementVersion()

	return nil
}

// Approve marks a pending document as approved. The comment is optional.
// Approved and rejected are terminal states.
func (d *Document) Approve(comment *string) error {
	if d.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending documents can be approved")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if len(trimmed) > maxReviewCommentLength {
			return shared.NewDomainError("INVALID_INPUT", "Review comment cannot exceed 1000 characters")
		}
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}

	now := time.Now()
	d.Status = StatusApproved
	d.ReviewComment = comment
	d.ReviewedAt = &now
	d.Touch()
	d.IncrementVersion()

	return nil
}

// Reject marks a pending document as rejected.
// The rejection reason is mandatory.
func (d *Document) Reject(comment string) error {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason is mandatory")
	}
	if len(trimmed) > maxReviewCommentLength {
		return shared.NewDomainError("INVALID_INPUT", "Review comment cannot exceed 1000 characters")
	}
	if d.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending documents can be rejected")
	}

	now := time.Now()
	d.Status = StatusRejected
	d.ReviewComment = &trimmed
	d.ReviewedAt = &now
	d.Touch()
	d.IncrementVersion()

	return nil
}

// ReplaceFile swaps the stored file and resets the review. A new file
// invalidates the previous decision entirely, so both the comment and
// the review timestamp are cleared.
func (d *Document) ReplaceFile(storageKey, originalFilename string) error {
	if err := d.AttachFile(storageKey, originalFilename); err != nil {
		return err
	}

	d.Status = StatusPending
	d.ReviewComment = nil
	d.ReviewedAt = nil
	d.Touch()
	d.IncrementVersion()

	return nil
}

// HasFile reports whether a file has been stored for this document
func (d *Document) HasFile() bool {
	return d.StorageKey != ""
}

// IsPending reports whether the document awaits review
func (d *Document) IsPending() bool {
	return d.Status == StatusPending
}

package document

import (
	"time"

	"github.com/cabinet/backend/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FileUpload carries an uploaded file through the application layer
type FileUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// CreateDocumentInput contains data for submitting a new document
type CreateDocumentInput struct {
	BusinessID    string
	Type          document.DocumentType
	Category      string
	EffectiveDate time.Time
	Amount        decimal.Decimal
	Supplier      string
	FiscalYear    string

	// Target company. Company users may omit it, their own company is
	// assumed. Accountants must provide it.
	TenantID *uuid.UUID

	File FileUpload
}

// ListDocumentsInput contains optional filters for listing documents
type ListDocumentsInput struct {
	TenantID   *uuid.UUID
	FiscalYear *string
	Status     *document.DocumentStatus
	Page       int
	PageSize   int
}

// ReviewInput carries the reviewer's comment for an approval or rejection
type ReviewInput struct {
	Comment string
}

// DocumentInfo is the document view exposed to clients
type DocumentInfo struct {
	ID               uuid.UUID               `json:"id"`
	BusinessID       string                  `json:"business_id"`
	Type             document.DocumentType   `json:"type"`
	Category         string                  `json:"category"`
	EffectiveDate    time.Time               `json:"effective_date"`
	Amount           decimal.Decimal         `json:"amount"`
	Supplier         string                  `json:"supplier,omitempty"`
	FiscalYear       string                  `json:"fiscal_year"`
	Status           document.DocumentStatus `json:"status"`
	ReviewComment    *string                 `json:"review_comment,omitempty"`
	ReviewedAt       *time.Time              `json:"reviewed_at,omitempty"`
	OriginalFilename string                  `json:"original_filename,omitempty"`
	TenantID         uuid.UUID               `json:"tenant_id"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// DocumentListResult contains a page of documents and the total count
type DocumentListResult struct {
	Documents []DocumentInfo
	Total     int64
}

// DownloadResult contains the file content and metadata for serving it
type DownloadResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

func toDocumentInfo(doc *document.Document) DocumentInfo {
	return DocumentInfo{
		ID:               doc.ID,
		BusinessID:       doc.BusinessID,
		Type:             doc.Type,
		Category:         doc.Category,
		EffectiveDate:    doc.EffectiveDate,
		Amount:           doc.Amount,
		Supplier:         doc.Supplier,
		FiscalYear:       doc.FiscalYear,
		Status:           doc.Status,
		ReviewComment:    doc.ReviewComment,
		ReviewedAt:       doc.ReviewedAt,
		OriginalFilename: doc.OriginalFilename,
		TenantID:         doc.TenantID,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

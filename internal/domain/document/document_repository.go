package document

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// Create creates a new document
	Create(ctx context.Context, doc *Document) error

	// Update updates an existing document
	Update(ctx context.Context, doc *Document) error

	// Delete deletes a document by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindAll returns documents matching the filter, newest first
	FindAll(ctx context.Context, filter DocumentFilter) ([]*Document, int64, error)

	// ExistsByBusinessID checks if a piece number already exists
	ExistsByBusinessID(ctx context.Context, businessID string) (bool, error)
}

// DocumentFilter contains filter options for querying documents
type DocumentFilter struct {
	// Filter by owning company
	TenantID *uuid.UUID

	// Filter by fiscal year label
	FiscalYear *string

	// Filter by review status
	Status *DocumentStatus

	// Pagination
	Page     int
	PageSize int
}

// NewDocumentFilter creates a new DocumentFilter with default values
func NewDocumentFilter() DocumentFilter {
	return DocumentFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithTenantID sets the tenant filter
func (f DocumentFilter) WithTenantID(tenantID uuid.UUID) DocumentFilter {
	f.TenantID = &tenantID
	return f
}

// WithFiscalYear sets the fiscal year filter
func (f DocumentFilter) WithFiscalYear(fiscalYear string) DocumentFilter {
	f.FiscalYear = &fiscalYear
	return f
}

// WithStatus sets the status filter
func (f DocumentFilter) WithStatus(status DocumentStatus) DocumentFilter {
	f.Status = &status
	return f
}

// WithPagination sets pagination parameters
func (f DocumentFilter) WithPagination(page, pageSize int) DocumentFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f DocumentFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f DocumentFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

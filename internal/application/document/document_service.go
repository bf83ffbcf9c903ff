package document

import (
	"context"
	"path"
	"strings"

	"github.com/cabinet/backend/internal/domain/document"
	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxFileSize is the upper bound for an uploaded document file
const maxFileSize = 10 << 20 // 10MiB

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

// DocumentService handles the document lifecycle: submission, review,
// file replacement, download and deletion. Every operation authorizes
// the caller against the document's owning company.
type DocumentService struct {
	docRepo    document.DocumentRepository
	tenantRepo identity.TenantRepository
	storage    FileStorage
	logger     *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo document.DocumentRepository,
	tenantRepo identity.TenantRepository,
	storage FileStorage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:    docRepo,
		tenantRepo: tenantRepo,
		storage:    storage,
		logger:     logger,
	}
}

// Create submits a new document with its file. All metadata and file
// validation happens before the file is stored, so a rejected submission
// leaves nothing behind. If persisting the metadata fails after the file
// was stored, the stored file is cleaned up best-effort.
func (s *DocumentService) Create(ctx context.Context, principal *identity.Principal, input CreateDocumentInput) (*DocumentInfo, error) {
	if err := identity.Authorize(principal, identity.RoleCompany, identity.RoleAccountant); err != nil {
		return nil, err
	}

	tenantID, err := s.resolveTargetTenant(principal, input.TenantID)
	if err != nil {
		return nil, err
	}

	exists, err := s.docRepo.ExistsByBusinessID(ctx, input.BusinessID)
	if err != nil {
		s.logger.Error("Piece number uniqueness check failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A document with this piece number already exists")
	}

	if _, err := s.tenantRepo.FindByID(ctx, tenantID); err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Company not found")
	}

	doc, err := document.NewDocument(
		input.BusinessID,
		input.Type,
		input.Category,
		input.EffectiveDate,
		input.Amount,
		input.Supplier,
		input.FiscalYear,
		tenantID,
	)
	if err != nil {
		return nil, err
	}

	if err := validateFile(input.File); err != nil {
		return nil, err
	}

	key, err := s.storage.Store(ctx, input.File.Data, input.File.Filename, input.File.ContentType)
	if err != nil {
		s.logger.Error("Failed to store document file", zap.Error(err))
		return nil, shared.NewDomainError("FILE_STORAGE_ERROR", "Failed to store document file")
	}

	if err := doc.AttachFile(key, input.File.Filename); err != nil {
		s.cleanupFile(ctx, key)
		return nil, err
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to persist document metadata", zap.Error(err))
		s.cleanupFile(ctx, key)
		return nil, err
	}

	s.logger.Info("Document submitted",
		zap.String("document_id", doc.ID.String()),
		zap.String("business_id", doc.BusinessID),
		zap.String("tenant_id", tenantID.String()))

	info := toDocumentInfo(doc)
	return &info, nil
}

// Get returns a single document the caller is allowed to see
func (s *DocumentService) Get(ctx context.Context, principal *identity.Principal, id uuid.UUID) (*DocumentInfo, error) {
	doc, err := s.findAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	info := toDocumentInfo(doc)
	return &info, nil
}

// List returns the documents visible to the caller. Company users only
// ever see their own company's documents regardless of the filters they
// send. Accountants see everything and may filter freely.
func (s *DocumentService) List(ctx context.Context, principal *identity.Principal, input ListDocumentsInput) (*DocumentListResult, error) {
	if err := identity.Authorize(principal, identity.RoleCompany, identity.RoleAccountant); err != nil {
		return nil, err
	}

	filter := document.NewDocumentFilter().WithPagination(input.Page, input.PageSize)

	if principal.IsCompany() {
		if principal.Tenant == nil {
			return nil, shared.NewDomainError("FORBIDDEN", "Company user is not associated with a company")
		}
		filter = filter.WithTenantID(principal.Tenant.ID)
	} else if input.TenantID != nil {
		filter = filter.WithTenantID(*input.TenantID)
	}

	if input.FiscalYear != nil {
		filter = filter.WithFiscalYear(*input.FiscalYear)
	}
	if input.Status != nil {
		filter = filter.WithStatus(*input.Status)
	}

	docs, total, err := s.docRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, toDocumentInfo(doc))
	}

	return &DocumentListResult{Documents: infos, Total: total}, nil
}

// ListPendingReview returns all documents awaiting review, oldest first
// candidates for the accountant's work queue
func (s *DocumentService) ListPendingReview(ctx context.Context, principal *identity.Principal, input ListDocumentsInput) (*DocumentListResult, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	status := document.StatusPending
	input.Status = &status
	return s.List(ctx, principal, input)
}

// Approve marks a pending document as approved with an optional comment
func (s *DocumentService) Approve(ctx context.Context, principal *identity.Principal, id uuid.UUID, input ReviewInput) (*DocumentInfo, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var comment *string
	if input.Comment != "" {
		comment = &input.Comment
	}

	if err := doc.Approve(comment); err != nil {
		return nil, err
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to persist approval", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Document approved",
		zap.String("document_id", doc.ID.String()),
		zap.String("reviewer_id", principal.UserID.String()))

	info := toDocumentInfo(doc)
	return &info, nil
}

// Reject marks a pending document as rejected. The reason is mandatory.
func (s *DocumentService) Reject(ctx context.Context, principal *identity.Principal, id uuid.UUID, input ReviewInput) (*DocumentInfo, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := doc.Reject(input.Comment); err != nil {
		return nil, err
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to persist rejection", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Document rejected",
		zap.String("document_id", doc.ID.String()),
		zap.String("reviewer_id", principal.UserID.String()))

	info := toDocumentInfo(doc)
	return &info, nil
}

// ReplaceFile stores a new file for the document and resets its review
// state to pending. The previous file is removed best-effort, the new
// metadata is already the source of truth.
func (s *DocumentService) ReplaceFile(ctx context.Context, principal *identity.Principal, id uuid.UUID, file FileUpload) (*DocumentInfo, error) {
	doc, err := s.findAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if err := validateFile(file); err != nil {
		return nil, err
	}

	oldKey := doc.StorageKey

	key, err := s.storage.Store(ctx, file.Data, file.Filename, file.ContentType)
	if err != nil {
		s.logger.Error("Failed to store replacement file", zap.Error(err))
		return nil, shared.NewDomainError("FILE_STORAGE_ERROR", "Failed to store document file")
	}

	if err := doc.ReplaceFile(key, file.Filename); err != nil {
		s.cleanupFile(ctx, key)
		return nil, err
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to persist file replacement", zap.Error(err))
		s.cleanupFile(ctx, key)
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		s.cleanupFile(ctx, oldKey)
	}

	s.logger.Info("Document file replaced",
		zap.String("document_id", doc.ID.String()))

	info := toDocumentInfo(doc)
	return &info, nil
}

// Download returns the document's file content. A document without a
// stored file cannot be downloaded.
func (s *DocumentService) Download(ctx context.Context, principal *identity.Principal, id uuid.UUID) (*DownloadResult, error) {
	doc, err := s.findAuthorized(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if !doc.HasFile() {
		return nil, shared.NewDomainError("INVALID_STATE", "Document has no stored file")
	}

	data, err := s.storage.Load(ctx, doc.StorageKey)
	if err != nil {
		s.logger.Error("Failed to load document file",
			zap.String("document_id", doc.ID.String()),
			zap.String("storage_key", doc.StorageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("FILE_STORAGE_ERROR", "Failed to load document file")
	}

	return &DownloadResult{
		Data:        data,
		Filename:    doc.OriginalFilename,
		ContentType: contentTypeForFilename(doc.OriginalFilename),
	}, nil
}

// Delete removes a document. The metadata row is authoritative, the file
// is removed best-effort afterwards.
func (s *DocumentService) Delete(ctx context.Context, principal *identity.Principal, id uuid.UUID) error {
	doc, err := s.findAuthorized(ctx, principal, id)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
		s.logger.Error("Failed to delete document", zap.Error(err))
		return err
	}

	if doc.HasFile() {
		s.cleanupFile(ctx, doc.StorageKey)
	}

	s.logger.Info("Document deleted",
		zap.String("document_id", doc.ID.String()))
	return nil
}

// findAuthorized loads a document and checks the caller may access it
func (s *DocumentService) findAuthorized(ctx context.Context, principal *identity.Principal, id uuid.UUID) (*document.Document, error) {
	if err := identity.Authorize(principal, identity.RoleCompany, identity.RoleAccountant); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := identity.AuthorizeTenantAccess(principal, doc.TenantID); err != nil {
		return nil, err
	}

	return doc, nil
}

// resolveTargetTenant determines which company a submission belongs to
func (s *DocumentService) resolveTargetTenant(principal *identity.Principal, requested *uuid.UUID) (uuid.UUID, error) {
	if principal.IsCompany() {
		if principal.Tenant == nil {
			return uuid.Nil, shared.NewDomainError("FORBIDDEN", "Company user is not associated with a company")
		}
		if requested != nil && *requested != principal.Tenant.ID {
			return uuid.Nil, shared.NewDomainError("FORBIDDEN", "Access to this company's resources is not allowed")
		}
		return principal.Tenant.ID, nil
	}

	if requested == nil {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "A target company is required")
	}
	return *requested, nil
}

func (s *DocumentService) cleanupFile(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to clean up stored file",
			zap.String("storage_key", key),
			zap.Error(err))
	}
}

func validateFile(file FileUpload) error {
	if len(file.Data) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "A document file is required")
	}
	if len(file.Data) > maxFileSize {
		return shared.NewDomainError("INVALID_INPUT", "File exceeds the 10MB size limit")
	}
	if _, ok := allowedContentTypes[file.ContentType]; !ok {
		return shared.NewDomainError("INVALID_INPUT", "Only PDF, JPEG and PNG files are accepted")
	}
	return nil
}

func contentTypeForFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	docapp "github.com/cabinet/backend/internal/application/document"
	"github.com/cabinet/backend/internal/domain/document"
	"github.com/cabinet/backend/internal/interfaces/http/dto"
)

// effectiveDateLayout is the wire format for document dates
const effectiveDateLayout = "2006-01-02"

// DocumentHandler handles document submission and retrieval endpoints
type DocumentHandler struct {
	BaseHandler
	docService *docapp.DocumentService
	logger     *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(docService *docapp.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocumentRequest is the multipart form for submitting a document.
// The file itself travels as the "file" form part.
type CreateDocumentRequest struct {
	BusinessID    string `form:"business_id" binding:"required,max=100"`
	Type          string `form:"type" binding:"required"`
	Category      string `form:"category" binding:"required,max=100"`
	EffectiveDate string `form:"effective_date" binding:"required"`
	Amount        string `form:"amount" binding:"required"`
	Supplier      string `form:"supplier" binding:"omitempty,max=255"`
	FiscalYear    string `form:"fiscal_year" binding:"required,max=10"`
	TenantID      string `form:"tenant_id" binding:"omitempty,uuid"`
}

// ListDocumentsRequest is the query for listing documents
type ListDocumentsRequest struct {
	dto.ListRequest
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	FiscalYear string `form:"fiscal_year"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// Create submits a new document with its file
func (h *DocumentHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	effectiveDate, err := time.Parse(effectiveDateLayout, req.EffectiveDate)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Effective date must be formatted as YYYY-MM-DD")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Amount must be a decimal number")
		return
	}

	var tenantID *uuid.UUID
	if req.TenantID != "" {
		parsed, err := uuid.Parse(req.TenantID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid company ID")
			return
		}
		tenantID = &parsed
	}

	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.docService.Create(c.Request.Context(), principal, docapp.CreateDocumentInput{
		BusinessID:    req.BusinessID,
		Type:          document.DocumentType(req.Type),
		Category:      req.Category,
		EffectiveDate: effectiveDate,
		Amount:        amount,
		Supplier:      req.Supplier,
		FiscalYear:    req.FiscalYear,
		TenantID:      tenantID,
		File:          upload,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns documents visible to the caller, with optional filters
func (h *DocumentHandler) List(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	input := docapp.ListDocumentsInput{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.TenantID != "" {
		parsed, err := uuid.Parse(req.TenantID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid company ID")
			return
		}
		input.TenantID = &parsed
	}
	if req.FiscalYear != "" {
		input.FiscalYear = &req.FiscalYear
	}
	if req.Status != "" {
		status := document.DocumentStatus(req.Status)
		input.Status = &status
	}

	result, err := h.docService.List(c.Request.Context(), principal, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Documents, req.Page, req.PageSize, result.Total)
}

// Get returns a single document by ID
func (h *DocumentHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.docService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Download streams the stored file of a document
func (h *DocumentHandler) Download(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.docService.Download(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// ReplaceFile swaps the stored file of a document and resets it to
// pending review
func (h *DocumentHandler) ReplaceFile(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.docService.ReplaceFile(c.Request.Context(), principal, id, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a document and its stored file
func (h *DocumentHandler) Delete(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.docService.Delete(c.Request.Context(), principal, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// readUpload extracts the "file" multipart part into a FileUpload
func (h *DocumentHandler) readUpload(c *gin.Context) (docapp.FileUpload, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "A document file is required")
		return docapp.FileUpload{}, false
	}

	data, err := readFileHeader(fileHeader)
	if err != nil {
		h.logger.Warn("Failed to read uploaded file", zap.Error(err))
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Uploaded file could not be read")
		return docapp.FileUpload{}, false
	}

	return docapp.FileUpload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, true
}

func readFileHeader(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

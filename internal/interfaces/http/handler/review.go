package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	docapp "github.com/cabinet/backend/internal/application/document"
	"github.com/cabinet/backend/internal/interfaces/http/dto"
)

// ReviewHandler handles the accountant review workflow
type ReviewHandler struct {
	BaseHandler
	docService *docapp.DocumentService
	logger     *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(docService *docapp.DocumentService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		docService: docService,
		logger:     logger,
	}
}

// ApproveRequest is the approval payload. The comment is optional.
type ApproveRequest struct {
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// RejectRequest is the rejection payload. A reason is mandatory so the
// submitter knows what to fix.
type RejectRequest struct {
	Comment string `json:"comment" binding:"required,max=1000"`
}

// ListPending returns documents awaiting review
func (h *ReviewHandler) ListPending(c *gin.Context) {
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

	result, err := h.docService.ListPendingReview(c.Request.Context(), principal, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Documents, req.Page, req.PageSize, result.Total)
}

// Approve marks a pending document as approved
func (h *ReviewHandler) Approve(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BindingError(c, err)
		return
	}

	result, err := h.docService.Approve(c.Request.Context(), principal, id, docapp.ReviewInput{Comment: req.Comment})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reject marks a pending document as rejected with a reason
func (h *ReviewHandler) Reject(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.docService.Reject(c.Request.Context(), principal, id, docapp.ReviewInput{Comment: req.Comment})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

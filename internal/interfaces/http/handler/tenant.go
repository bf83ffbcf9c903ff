package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/cabinet/backend/internal/application/identity"
)

// TenantHandler handles client-company administration endpoints.
// Authorization is enforced by the application layer, only accountants
// pass its checks.
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
	logger        *zap.Logger
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logger:        logger,
	}
}

// CreateTenantRequest is the company registration payload
type CreateTenantRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	RegistrationCode string `json:"registration_code" binding:"required"`
	Address          string `json:"address" binding:"omitempty,max=500"`
	Phone            string `json:"phone" binding:"omitempty,max=50"`
	ContactEmail     string `json:"contact_email" binding:"omitempty,email"`
}

// Create registers a new client company
func (h *TenantHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.tenantService.CreateTenant(c.Request.Context(), principal, identityapp.CreateTenantInput{
		Name:             req.Name,
		RegistrationCode: req.RegistrationCode,
		Address:          req.Address,
		Phone:            req.Phone,
		ContactEmail:     req.ContactEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a single company by ID
func (h *TenantHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.tenantService.GetTenant(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns all registered companies
func (h *TenantHandler) List(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	result, err := h.tenantService.ListTenants(c.Request.Context(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate re-enables a deactivated company
func (h *TenantHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables a company. Its users are refused on their next
// request.
func (h *TenantHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *TenantHandler) setActive(c *gin.Context, active bool) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var err error
	if active {
		err = h.tenantService.ActivateTenant(c.Request.Context(), principal, id)
	} else {
		err = h.tenantService.DeactivateTenant(c.Request.Context(), principal, id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

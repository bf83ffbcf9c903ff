package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	identityapp "github.com/cabinet/backend/internal/application/identity"
	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/interfaces/http/dto"
)

// UserHandler handles user account administration endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUserRequest is the account provisioning payload
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required,max=255"`
	Role        string `json:"role" binding:"required,oneof=accountant company"`
	TenantID    string `json:"tenant_id" binding:"omitempty,uuid"`
}

// ListUsersRequest is the query for listing user accounts
type ListUsersRequest struct {
	dto.ListRequest
	Role     string `form:"role" binding:"omitempty,oneof=accountant company"`
	TenantID string `form:"tenant_id" binding:"omitempty,uuid"`
	Active   *bool  `form:"active"`
}

// Create provisions a new user account
func (h *UserHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	input := identityapp.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        identity.Role(req.Role),
	}
	if req.TenantID != "" {
		parsed, err := uuid.Parse(req.TenantID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid company ID")
			return
		}
		input.TenantID = &parsed
	}

	result, err := h.userService.CreateUser(c.Request.Context(), principal, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a single user account by ID
func (h *UserHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.userService.GetUser(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns user accounts matching the given filters
func (h *UserHandler) List(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	input := identityapp.ListUsersInput{
		Active:   req.Active,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Role != "" {
		role := identity.Role(req.Role)
		input.Role = &role
	}
	if req.TenantID != "" {
		parsed, err := uuid.Parse(req.TenantID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid company ID")
			return
		}
		input.TenantID = &parsed
	}

	result, err := h.userService.ListUsers(c.Request.Context(), principal, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, req.Page, req.PageSize, result.Total)
}

// Activate re-enables a deactivated user account
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables a user account. The account is refused on its
// next request even if it still holds a valid token.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
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
		err = h.userService.ActivateUser(c.Request.Context(), principal, id)
	} else {
		err = h.userService.DeactivateUser(c.Request.Context(), principal, id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

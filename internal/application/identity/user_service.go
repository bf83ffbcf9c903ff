package identity

import (
	"context"

	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user account administration. All operations are
// restricted to accountants.
type UserService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

// NewUserService creates a new user administration service
func NewUserService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// CreateUser provisions a new account. Company users must reference an
// existing company, accountants must not reference one.
func (s *UserService) CreateUser(ctx context.Context, principal *identity.Principal, input CreateUserInput) (*UserInfo, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	var user *identity.User
	var tenant *identity.Tenant
	var err error

	switch input.Role {
	case identity.RoleCompany:
		if input.TenantID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Company users require a company")
		}
		tenant, err = s.tenantRepo.FindByID(ctx, *input.TenantID)
		if err != nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Company not found")
		}
		user, err = identity.NewCompanyUser(input.Email, input.Password, input.DisplayName, tenant.ID)
	case identity.RoleAccountant:
		if input.TenantID != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Accountants cannot be bound to a company")
		}
		user, err = identity.NewAccountantUser(input.Email, input.Password, input.DisplayName)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown role")
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("Email uniqueness check failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	info := toUserInfo(user, tenant)
	return &info, nil
}

// GetUser returns a single user account
func (s *UserService) GetUser(ctx context.Context, principal *identity.Principal, userID uuid.UUID) (*UserInfo, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := toUserInfo(user, s.lookupTenant(ctx, user))
	return &info, nil
}

// ListUsers returns a filtered page of user accounts
func (s *UserService) ListUsers(ctx context.Context, principal *identity.Principal, input ListUsersInput) (*UserListResult, error) {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return nil, err
	}

	filter := identity.NewUserFilter().WithPagination(input.Page, input.PageSize)
	if input.Role != nil {
		filter = filter.WithRole(*input.Role)
	}
	if input.TenantID != nil {
		filter = filter.WithTenantID(*input.TenantID)
	}
	if input.Active != nil {
		filter = filter.WithActive(*input.Active)
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user, s.lookupTenant(ctx, user)))
	}

	return &UserListResult{Users: infos, Total: total}, nil
}

// ActivateUser re-enables a deactivated account
func (s *UserService) ActivateUser(ctx context.Context, principal *identity.Principal, userID uuid.UUID) error {
	return s.setActive(ctx, principal, userID, true)
}

// DeactivateUser disables an account. The user is locked out on their next
// request, outstanding tokens included.
func (s *UserService) DeactivateUser(ctx context.Context, principal *identity.Principal, userID uuid.UUID) error {
	return s.setActive(ctx, principal, userID, false)
}

func (s *UserService) setActive(ctx context.Context, principal *identity.Principal, userID uuid.UUID, active bool) error {
	if err := identity.Authorize(principal, identity.RoleAccountant); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if active {
		err = user.Activate()
	} else {
		err = user.Deactivate()
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user activation", zap.Error(err))
		return err
	}

	s.logger.Info("User activation changed",
		zap.String("user_id", userID.String()),
		zap.Bool("active", active))
	return nil
}

// lookupTenant loads the company for display purposes. A missing company is
// tolerated here, listing must not fail on a dangling reference.
func (s *UserService) lookupTenant(ctx context.Context, user *identity.User) *identity.Tenant {
	if user.TenantID == nil {
		return nil
	}
	tenant, err := s.tenantRepo.FindByID(ctx, *user.TenantID)
	if err != nil {
		return nil
	}
	return tenant
}

package identity

import (
	"context"
	"strings"

	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/cabinet/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication and per-request identity resolution
type AuthService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user by email and password and issues an access token.
// Unknown email and wrong password produce the same error so the response
// does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Incorrect email or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Incorrect email or password")
	}

	if !user.Active {
		s.logger.Warn("Login attempt for deactivated account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been deactivated")
	}

	principal, err := s.buildPrincipal(ctx, user)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue authentication token")
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      PrincipalInfo(principal),
	}, nil
}

// Resolve loads the live principal for the given user ID. It is called on
// every authenticated request, so deactivating an account or its company
// takes effect immediately even for tokens that are still valid.
func (s *AuthService) Resolve(ctx context.Context, userID uuid.UUID) (*identity.Principal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Token references an unknown user", zap.String("user_id", userID.String()))
		return nil, shared.ErrUnauthorized
	}

	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been deactivated")
	}

	return s.buildPrincipal(ctx, user)
}

// buildPrincipal assembles the principal, eagerly loading the company
// reference for company users.
func (s *AuthService) buildPrincipal(ctx context.Context, user *identity.User) (*identity.Principal, error) {
	principal := &identity.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}

	if user.Role != identity.RoleCompany {
		return principal, nil
	}

	if user.TenantID == nil {
		s.logger.Error("Company user has no company association", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("FORBIDDEN", "Company user is not associated with a company")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, *user.TenantID)
	if err != nil {
		s.logger.Error("Company lookup failed for company user",
			zap.String("user_id", user.ID.String()),
			zap.String("tenant_id", user.TenantID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("FORBIDDEN", "Company user is not associated with a company")
	}

	if !tenant.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Company has been deactivated")
	}

	principal.Tenant = &identity.TenantRef{ID: tenant.ID, Name: tenant.Name}
	return principal, nil
}

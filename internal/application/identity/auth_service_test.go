package identity

import (
	"context"
	"testing"
	"time"

	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/cabinet/backend/internal/infrastructure/auth"
	"github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(userRepo *MockUserRepository, tenantRepo *MockTenantRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: time.Hour,
		Issuer:          "cabinet-test",
	})
	return NewAuthService(userRepo, tenantRepo, jwtService, zap.NewNop())
}

func newActiveCompanyUser(t *testing.T, tenantID uuid.UUID) *identity.User {
	t.Helper()
	user, err := identity.NewCompanyUser("jean@acme.ma", "Password123", "Jean Dupont", tenantID)
	require.NoError(t, err)
	return user
}

func newActiveTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("Acme SARL", "001234567000089")
	require.NoError(t, err)
	return tenant
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token for valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		tenant := newActiveTenant(t)
		user := newActiveCompanyUser(t, tenant.ID)

		userRepo.On("FindByEmail", ctx, "jean@acme.ma").Return(user, nil)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		result, err := svc.Login(ctx, LoginInput{Email: "  Jean@Acme.MA ", Password: "Password123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Second)
		assert.Equal(t, user.ID, result.User.ID)
		require.NotNil(t, result.User.Tenant)
		assert.Equal(t, tenant.ID, result.User.Tenant.ID)
	})

	t.Run("unknown email and wrong password yield the same error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		user := newActiveCompanyUser(t, uuid.New())
		userRepo.On("FindByEmail", ctx, "jean@acme.ma").Return(user, nil)
		userRepo.On("FindByEmail", ctx, "ghost@acme.ma").Return(nil, shared.ErrNotFound)

		_, errUnknown := svc.Login(ctx, LoginInput{Email: "ghost@acme.ma", Password: "Password123"})
		_, errWrongPass := svc.Login(ctx, LoginInput{Email: "jean@acme.ma", Password: "WrongPassword"})

		assertDomainErrorCode(t, errUnknown, "UNAUTHORIZED")
		assertDomainErrorCode(t, errWrongPass, "UNAUTHORIZED")
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		user := newActiveCompanyUser(t, uuid.New())
		require.NoError(t, user.Deactivate())
		userRepo.On("FindByEmail", ctx, "jean@acme.ma").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "jean@acme.ma", Password: "Password123"})
		assertDomainErrorCode(t, err, "ACCOUNT_DISABLED")
	})

	t.Run("deactivated company blocks its users", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		tenant := newActiveTenant(t)
		require.NoError(t, tenant.Deactivate())
		user := newActiveCompanyUser(t, tenant.ID)

		userRepo.On("FindByEmail", ctx, "jean@acme.ma").Return(user, nil)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "jean@acme.ma", Password: "Password123"})
		assertDomainErrorCode(t, err, "ACCOUNT_DISABLED")
	})
}

func TestAuthServiceResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a company principal with its tenant", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		tenant := newActiveTenant(t)
		user := newActiveCompanyUser(t, tenant.ID)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		principal, err := svc.Resolve(ctx, user.ID)

		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.UserID)
		assert.Equal(t, identity.RoleCompany, principal.Role)
		require.NotNil(t, principal.Tenant)
		assert.Equal(t, tenant.Name, principal.Tenant.Name)
	})

	t.Run("resolves an accountant without touching the tenant repo", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		user, err := identity.NewAccountantUser("sara@cabinet.ma", "Password123", "Sara Alami")
		require.NoError(t, err)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		principal, err := svc.Resolve(ctx, user.ID)

		require.NoError(t, err)
		assert.Nil(t, principal.Tenant)
		tenantRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		userID := uuid.New()
		userRepo.On("FindByID", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := svc.Resolve(ctx, userID)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("deactivation takes effect on the next resolve", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		tenant := newActiveTenant(t)
		user := newActiveCompanyUser(t, tenant.ID)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		_, err := svc.Resolve(ctx, user.ID)
		require.NoError(t, err)

		// The account is deactivated while its token is still valid.
		require.NoError(t, user.Deactivate())

		_, err = svc.Resolve(ctx, user.ID)
		assertDomainErrorCode(t, err, "ACCOUNT_DISABLED")
	})

	t.Run("company user without company is forbidden", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tenantRepo := new(MockTenantRepository)
		svc := newTestAuthService(userRepo, tenantRepo)

		user := newActiveCompanyUser(t, uuid.New())
		user.TenantID = nil
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := svc.Resolve(ctx, user.ID)
		assertDomainErrorCode(t, err, "FORBIDDEN")
	})
}

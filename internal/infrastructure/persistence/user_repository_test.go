package persistence

import (
	"context"
	"testing"

	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/cabinet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupIdentityTestDB creates an in-memory SQLite database for testing
func setupIdentityTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.TenantModel{}))
	return db
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(setupIdentityTestDB(t))
	tenantID := uuid.New()

	user, err := identity.NewCompanyUser("jean@acme.ma", "Password123", "Jean Dupont", tenantID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, found.Email)
		assert.Equal(t, identity.RoleCompany, found.Role)
		require.NotNil(t, found.TenantID)
		assert.Equal(t, tenantID, *found.TenantID)
	})

	t.Run("find by email is case insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "Jean@Acme.MA")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "ghost@acme.ma")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "jean@acme.ma")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "ghost@acme.ma")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update persists deactivation", func(t *testing.T) {
		require.NoError(t, user.Deactivate())
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("find all filters by role and tenant", func(t *testing.T) {
		accountantUser, err := identity.NewAccountantUser("sara@cabinet.ma", "Password123", "Sara Alami")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, accountantUser))

		users, total, err := repo.FindAll(ctx, identity.NewUserFilter().WithRole(identity.RoleAccountant))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, "sara@cabinet.ma", users[0].Email)

		users, _, err = repo.FindAll(ctx, identity.NewUserFilter().WithTenantID(tenantID))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "jean@acme.ma", users[0].Email)
	})
}

func TestGormTenantRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTenantRepository(setupIdentityTestDB(t))

	tenant, err := identity.NewTenant("Acme SARL", "001234567000089")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tenant))

	t.Run("find by id and code", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme SARL", found.Name)

		found, err = repo.FindByCode(ctx, "001234567000089")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, found.ID)
	})

	t.Run("exists by code", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "001234567000089")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "999999999999999")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find all ordered by name", func(t *testing.T) {
		second, err := identity.NewTenant("Zenith SA", "998877665544332")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, second))

		tenants, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, tenants, 2)
		assert.Equal(t, "Acme SARL", tenants[0].Name)
		assert.Equal(t, "Zenith SA", tenants[1].Name)
	})

	t.Run("update persists contact changes", func(t *testing.T) {
		require.NoError(t, tenant.SetContactEmail("contact@acme.ma"))
		require.NoError(t, repo.Update(ctx, tenant))

		found, err := repo.FindByID(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, "contact@acme.ma", found.ContactEmail)
	})
}

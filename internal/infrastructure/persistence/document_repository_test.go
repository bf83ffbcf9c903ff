package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/cabinet/backend/internal/domain/document"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/cabinet/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDocumentTestDB creates an in-memory SQLite database for testing
func setupDocumentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.DocumentModel{}))
	return db
}

func newPersistedDocument(t *testing.T, repo *GormDocumentRepository, businessID string, tenantID uuid.UUID) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(
		businessID,
		document.TypePurchaseInvoice,
		"606 - Achats",
		time.Now().AddDate(0, 0, -1),
		decimal.NewFromFloat(1250.50),
		"Fournisseur Alpha",
		"2026",
		tenantID,
	)
	require.NoError(t, err)
	require.NoError(t, doc.AttachFile("key_"+businessID+".pdf", "facture.pdf"))
	require.NoError(t, repo.Create(context.Background(), doc))
	return doc
}

func TestGormDocumentRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormDocumentRepository(setupDocumentTestDB(t))
	tenantID := uuid.New()

	t.Run("create and find by id", func(t *testing.T) {
		doc := newPersistedDocument(t, repo, "FAC-2026-001", tenantID)

		found, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.BusinessID, found.BusinessID)
		assert.Equal(t, document.StatusPending, found.Status)
		assert.True(t, doc.Amount.Equal(found.Amount))
		assert.Equal(t, tenantID, found.TenantID)
	})

	t.Run("find by unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update persists review state", func(t *testing.T) {
		doc := newPersistedDocument(t, repo, "FAC-2026-002", tenantID)
		require.NoError(t, doc.Reject("Montant illisible"))

		require.NoError(t, repo.Update(ctx, doc))

		found, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, document.StatusRejected, found.Status)
		require.NotNil(t, found.ReviewComment)
		assert.Equal(t, "Montant illisible", *found.ReviewComment)
		assert.NotNil(t, found.ReviewedAt)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		doc := newPersistedDocument(t, repo, "FAC-2026-003", tenantID)

		require.NoError(t, repo.Delete(ctx, doc.ID))

		_, err := repo.FindByID(ctx, doc.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, doc.ID), shared.ErrNotFound)
	})

	t.Run("exists by business id", func(t *testing.T) {
		newPersistedDocument(t, repo, "FAC-2026-004", tenantID)

		exists, err := repo.ExistsByBusinessID(ctx, "FAC-2026-004")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByBusinessID(ctx, "FAC-9999-999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormDocumentRepositoryFindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormDocumentRepository(setupDocumentTestDB(t))

	tenantA := uuid.New()
	tenantB := uuid.New()

	docA1 := newPersistedDocument(t, repo, "FAC-A-001", tenantA)
	newPersistedDocument(t, repo, "FAC-A-002", tenantA)
	newPersistedDocument(t, repo, "FAC-B-001", tenantB)

	require.NoError(t, docA1.Approve(nil))
	require.NoError(t, repo.Update(ctx, docA1))

	t.Run("filters by tenant", func(t *testing.T) {
		docs, total, err := repo.FindAll(ctx, document.NewDocumentFilter().WithTenantID(tenantA))
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, docs, 2)
		for _, doc := range docs {
			assert.Equal(t, tenantA, doc.TenantID)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		docs, total, err := repo.FindAll(ctx, document.NewDocumentFilter().
			WithTenantID(tenantA).
			WithStatus(document.StatusPending))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, docs, 1)
		assert.Equal(t, "FAC-A-002", docs[0].BusinessID)
	})

	t.Run("filters by fiscal year", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, document.NewDocumentFilter().WithFiscalYear("2026"))
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)

		_, total, err = repo.FindAll(ctx, document.NewDocumentFilter().WithFiscalYear("2020"))
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})

	t.Run("paginates", func(t *testing.T) {
		docs, total, err := repo.FindAll(ctx, document.NewDocumentFilter().WithPagination(1, 2))
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, docs, 2)

		docs, _, err = repo.FindAll(ctx, document.NewDocumentFilter().WithPagination(2, 2))
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

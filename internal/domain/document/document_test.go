package document

import (
	"testing"
	"time"

	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(
		"FAC-2026-001",
		TypePurchaseInvoice,
		"606 - Achats",
		time.Now().AddDate(0, 0, -1),
		decimal.NewFromFloat(1250.50),
		"Fournisseur Alpha",
		"2026",
		uuid.New(),
	)
	require.NoError(t, err)
	require.NoError(t, doc.AttachFile("ab12cd_facture.pdf", "facture.pdf"))
	return doc
}

func TestNewDocument(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates pending document", func(t *testing.T) {
		doc, err := NewDocument(
			"FAC-2026-001",
			TypeSalesInvoice,
			"701 - Ventes",
			time.Now().AddDate(0, -1, 0),
			decimal.NewFromInt(900),
			"",
			"2026",
			tenantID,
		)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, doc.Status)
		assert.Nil(t, doc.ReviewComment)
		assert.Nil(t, doc.ReviewedAt)
		assert.Equal(t, tenantID, doc.TenantID)
		assert.False(t, doc.HasFile())
	})

	t.Run("fails with empty piece number", func(t *testing.T) {
		_, err := NewDocument("", TypeReceipt, "c", time.Now(), decimal.NewFromInt(1), "", "2026", tenantID)
		assert.Error(t, err)
	})

	t.Run("fails with unknown type", func(t *testing.T) {
		_, err := NewDocument("X-1", DocumentType("payslip"), "c", time.Now(), decimal.NewFromInt(1), "", "2026", tenantID)
		assert.Error(t, err)
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			_, err := NewDocument("X-1", TypeReceipt, "c", time.Now(), amount, "", "2026", tenantID)
			assert.Error(t, err, "amount %s should be rejected", amount)
		}
	})

	t.Run("fails with future date", func(t *testing.T) {
		_, err := NewDocument("X-1", TypeReceipt, "c", time.Now().AddDate(0, 0, 2), decimal.NewFromInt(1), "", "2026", tenantID)
		assert.Error(t, err)
	})

	t.Run("fails without a company", func(t *testing.T) {
		_, err := NewDocument("X-1", TypeReceipt, "c", time.Now(), decimal.NewFromInt(1), "", "2026", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestDocumentApprove(t *testing.T) {
	t.Run("approves a pending document without comment", func(t *testing.T) {
		doc := newTestDocument(t)

		require.NoError(t, doc.Approve(nil))

		assert.Equal(t, StatusApproved, doc.Status)
		assert.Nil(t, doc.ReviewComment)
		require.NotNil(t, doc.ReviewedAt)
		assert.WithinDuration(t, time.Now(), *doc.ReviewedAt, time.Second)
	})

	t.Run("approves with a comment", func(t *testing.T) {
		doc := newTestDocument(t)
		comment := "Conforme"

		require.NoError(t, doc.Approve(&comment))

		require.NotNil(t, doc.ReviewComment)
		assert.Equal(t, "Conforme", *doc.ReviewComment)
	})

	t.Run("blank comment is treated as absent", func(t *testing.T) {
		doc := newTestDocument(t)
		comment := "   "

		require.NoError(t, doc.Approve(&comment))
		assert.Nil(t, doc.ReviewComment)
	})

	t.Run("approved is terminal", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Approve(nil))

		err := doc.Approve(nil)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejected document cannot be approved", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Reject("incomplete"))

		err := doc.Approve(nil)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestDocumentReject(t *testing.T) {
	t.Run("rejects a pending document with a reason", func(t *testing.T) {
		doc := newTestDocument(t)

		require.NoError(t, doc.Reject("Montant illisible"))

		assert.Equal(t, StatusRejected, doc.Status)
		require.NotNil(t, doc.ReviewComment)
		assert.Equal(t, "Montant illisible", *doc.ReviewComment)
		assert.NotNil(t, doc.ReviewedAt)
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		doc := newTestDocument(t)

		for _, reason := range []string{"", "   ", "\t\n"} {
			err := doc.Reject(reason)
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		}
		// Document untouched by the failed attempts.
		assert.Equal(t, StatusPending, doc.Status)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Reject("first reason"))

		err := doc.Reject("second reason")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, "first reason", *doc.ReviewComment)
	})
}

func TestDocumentReplaceFile(t *testing.T) {
	t.Run("resets review state entirely", func(t *testing.T) {
		doc := newTestDocument(t)
		comment := "ok"
		require.NoError(t, doc.Approve(&comment))

		require.NoError(t, doc.ReplaceFile("ef34gh_facture_v2.pdf", "facture_v2.pdf"))

		assert.Equal(t, StatusPending, doc.Status)
		assert.Nil(t, doc.ReviewComment)
		assert.Nil(t, doc.ReviewedAt)
		assert.Equal(t, "ef34gh_facture_v2.pdf", doc.StorageKey)
		assert.Equal(t, "facture_v2.pdf", doc.OriginalFilename)
	})

	t.Run("fails with empty storage key", func(t *testing.T) {
		doc := newTestDocument(t)
		err := doc.ReplaceFile("", "facture.pdf")
		assert.Error(t, err)
	})
}

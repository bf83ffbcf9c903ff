package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	docapp "github.com/cabinet/backend/internal/application/document"
	"github.com/cabinet/backend/internal/domain/document"
	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/interfaces/http/dto"
)

// MockDocumentRepository is a mock implementation of document.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter document.DocumentFilter) ([]*document.Document, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*document.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) ExistsByBusinessID(ctx context.Context, businessID string) (bool, error) {
	args := m.Called(ctx, businessID)
	return args.Bool(0), args.Error(1)
}

// MockFileStorage is a mock implementation of docapp.FileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Store(ctx context.Context, data []byte, originalFilename, contentType string) (string, error) {
	args := m.Called(ctx, data, originalFilename, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type documentHandlerFixture struct {
	docRepo    *MockDocumentRepository
	tenantRepo *MockTenantRepository
	storage    *MockFileStorage
	router     *gin.Engine
}

func newDocumentHandlerFixture(t *testing.T, principal *identity.Principal) *documentHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &documentHandlerFixture{
		docRepo:    new(MockDocumentRepository),
		tenantRepo: new(MockTenantRepository),
		storage:    new(MockFileStorage),
	}
	service := docapp.NewDocumentService(f.docRepo, f.tenantRepo, f.storage, zap.NewNop())
	docHandler := NewDocumentHandler(service, zap.NewNop())
	reviewHandler := NewReviewHandler(service, zap.NewNop())

	f.router = gin.New()
	f.router.Use(principalContext(principal))
	f.router.POST("/documents", docHandler.Create)
	f.router.GET("/documents/:id/download", docHandler.Download)
	f.router.POST("/review/documents/:id/approve", reviewHandler.Approve)
	f.router.POST("/review/documents/:id/reject", reviewHandler.Reject)
	return f
}

func companyPrincipal(tenantID uuid.UUID) *identity.Principal {
	return &identity.Principal{
		UserID:      uuid.New(),
		Email:       "jean@acme.ma",
		DisplayName: "Jean Dupont",
		Role:        identity.RoleCompany,
		Tenant:      &identity.TenantRef{ID: tenantID, Name: "Acme SARL"},
	}
}

func accountantPrincipal() *identity.Principal {
	return &identity.Principal{
		UserID:      uuid.New(),
		Email:       "sara@cabinet.ma",
		DisplayName: "Sara Alami",
		Role:        identity.RoleAccountant,
	}
}

// multipartDocument builds a multipart form for document submission
func multipartDocument(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withFile {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="file"; filename="facture.pdf"`}
		header["Content-Type"] = []string{"application/pdf"}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader("%PDF-1.4 content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func validDocumentFields() map[string]string {
	return map[string]string{
		"business_id":    "FAC-2026-0042",
		"type":           "purchase_invoice",
		"category":       "6111",
		"effective_date": "2026-03-15",
		"amount":         "1250.50",
		"supplier":       "Maroc Telecom",
		"fiscal_year":    "2026",
	}
}

func TestDocumentHandlerCreate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("company user submits a document", func(t *testing.T) {
		f := newDocumentHandlerFixture(t, companyPrincipal(tenantID))

		tenant, err := identity.NewTenant("Acme SARL", "001234567000089")
		require.NoError(t, err)
		f.docRepo.On("ExistsByBusinessID", mock.Anything, "FAC-2026-0042").Return(false, nil)
		f.tenantRepo.On("FindByID", mock.Anything, tenantID).Return(tenant, nil)
		f.storage.On("Store", mock.Anything, mock.Anything, "facture.pdf", "application/pdf").
			Return("key_facture.pdf", nil)
		f.docRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		body, contentType := multipartDocument(t, validDocumentFields(), true)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "FAC-2026-0042")
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	})

	t.Run("missing file", func(t *testing.T) {
		f := newDocumentHandlerFixture(t, companyPrincipal(tenantID))

		body, contentType := multipartDocument(t, validDocumentFields(), false)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed effective date", func(t *testing.T) {
		f := newDocumentHandlerFixture(t, companyPrincipal(tenantID))

		fields := validDocumentFields()
		fields["effective_date"] = "15/03/2026"
		body, contentType := multipartDocument(t, fields, true)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDocumentHandlerDownload(t *testing.T) {
	tenantID := uuid.New()
	f := newDocumentHandlerFixture(t, companyPrincipal(tenantID))

	doc, err := document.NewDocument("FAC-2026-0042", document.TypePurchaseInvoice, "6111",
		time.Now().AddDate(0, -1, 0), decimal.NewFromInt(100), "Maroc Telecom", "2026", tenantID)
	require.NoError(t, err)
	require.NoError(t, doc.AttachFile("key_facture.pdf", "facture.pdf"))

	f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.storage.On("Load", mock.Anything, "key_facture.pdf").Return([]byte("%PDF-1.4 content"), nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID.String()+"/download", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="facture.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 content", rec.Body.String())
}

func TestReviewHandler(t *testing.T) {
	tenantID := uuid.New()

	newPendingDoc := func(t *testing.T) *document.Document {
		doc, err := document.NewDocument("FAC-2026-0042", document.TypePurchaseInvoice, "6111",
			time.Now().AddDate(0, -1, 0), decimal.NewFromInt(100), "Maroc Telecom", "2026", tenantID)
		require.NoError(t, err)
		require.NoError(t, doc.AttachFile("key_facture.pdf", "facture.pdf"))
		return doc
	}

	t.Run("accountant approves", func(t *testing.T) {
		f := newDocumentHandlerFixture(t, accountantPrincipal())
		doc := newPendingDoc(t)

		f.docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/review/documents/"+doc.ID.String()+"/approve",
			strings.NewReader(`{"comment":"Conforme"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"status":"approved"`)
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		f := newDocumentHandlerFixture(t, accountantPrincipal())
		doc := newPendingDoc(t)

		req := httptest.NewRequest(http.MethodPost, "/review/documents/"+doc.ID.String()+"/reject",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.docRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("company user cannot approve", func(t *testing.T) {
		f := newDocumentHandlerFixture(t, companyPrincipal(tenantID))
		doc := newPendingDoc(t)

		req := httptest.NewRequest(http.MethodPost, "/review/documents/"+doc.ID.String()+"/approve",
			strings.NewReader(`{"comment":"Conforme"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})
}

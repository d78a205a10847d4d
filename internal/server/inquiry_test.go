package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotkeeper/lotkeeper/internal/config"
	inquirydomain "github.com/lotkeeper/lotkeeper/internal/inquiry/domain"
	inventorydomain "github.com/lotkeeper/lotkeeper/internal/inventory/domain"
)

type fakeInquiryService struct {
	created *inquirydomain.CreateRequest
	err     error
}

func (f *fakeInquiryService) Create(ctx context.Context, req inquirydomain.CreateRequest) (*inquirydomain.Inquiry, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &inquirydomain.Inquiry{
		ID:        42,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Status:    inquirydomain.InquiryPending,
	}, nil
}

func (f *fakeInquiryService) Get(ctx context.Context, id string) (*inquirydomain.Inquiry, error) {
	return nil, inquirydomain.ErrNotFound
}

func (f *fakeInquiryService) List(ctx context.Context) ([]inquirydomain.Inquiry, error) {
	return nil, nil
}

func (f *fakeInquiryService) Update(ctx context.Context, id string, req inquirydomain.UpdateRequest) (*inquirydomain.Inquiry, error) {
	return nil, inquirydomain.ErrNotFound
}

type fakeInventoryService struct {
	syncErr error
}

func (f *fakeInventoryService) SyncIncremental(ctx context.Context) (*inventorydomain.Summary, error) {
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	return &inventorydomain.Summary{Processed: 3, Created: 2, Updated: 1}, nil
}

func (f *fakeInventoryService) ReplaceFromText(ctx context.Context, text string) (*inventorydomain.Summary, error) {
	return nil, inventorydomain.ErrEmptyInput
}

func newTestServer(t *testing.T, inquiries inquirydomain.Service, inv inventorydomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{Environment: "test"}
	engine := NewEngine(cfg, nil)
	return NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		InquirySvc:   inquiries,
		InventorySvc: inv,
	})
}

func TestCreateInquiryEndpoint(t *testing.T) {
	fake := &fakeInquiryService{}
	srv := newTestServer(t, fake, &fakeInventoryService{})

	body := []byte(`{"first_name":"Jamie","last_name":"Ruiz","email":"jamie@example.com","message":"Still available?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, fake.created)
	assert.Nil(t, fake.created.Phone)

	var resp struct {
		Data inquirydomain.Inquiry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Data.ID)
	assert.Nil(t, resp.Data.Phone)
}

func TestCreateInquiryValidationEnvelope(t *testing.T) {
	fake := &fakeInquiryService{err: inquirydomain.ErrInvalidEmail}
	srv := newTestServer(t, fake, &fakeInventoryService{})

	body := []byte(`{"first_name":"Jamie","last_name":"Ruiz","email":"nope","message":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_email", resp.Error.Errors[0].Code)
	assert.Equal(t, "email", resp.Error.Errors[0].Field)
}

func TestTriggerSyncConflictEnvelope(t *testing.T) {
	srv := newTestServer(t, &fakeInquiryService{}, &fakeInventoryService{syncErr: inventorydomain.ErrSyncInProgress})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error.Type)
}

func TestTriggerSyncSummary(t *testing.T) {
	srv := newTestServer(t, &fakeInquiryService{}, &fakeInventoryService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data inventorydomain.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.Processed)
	assert.Equal(t, 2, resp.Data.Created)
}

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocjay1/finance-tracker/internal/handler"
	"github.com/rocjay1/finance-tracker/internal/importer"
	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

type stubStore struct{}

func (stubStore) BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	ids := make([]models.RecordID, len(records))
	for i := range ids {
		ids[i] = "1"
	}
	return &models.BatchResult{Count: len(records), IDs: ids}, nil
}

func (stubStore) Insert(ctx context.Context, rec models.ImportRecord) (models.RecordID, error) {
	return "1", nil
}

func (stubStore) Delete(ctx context.Context, id models.RecordID) error { return nil }

type stubSigner struct{}

func (stubSigner) SignedUploadURL(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + objectName, nil
}

type stubImporter struct{}

func (stubImporter) Import(ctx context.Context, src io.Reader) (*importer.Outcome, error) {
	return &importer.Outcome{Success: true}, nil
}

func testRouter() http.Handler {
	return newRouter(&handler.Dependencies{
		Store:    stubStore{},
		Signer:   stubSigner{},
		Importer: stubImporter{},
	})
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodPost, "/api/transactions/import", `{"transactions":[{"transaction_type":"expense","transaction_name":"a","amount":1,"transaction_date":"2026-01-01"}]}`, http.StatusOK},
		{http.MethodOptions, "/api/transactions/import", "", http.StatusNoContent},
		{http.MethodPost, "/api/transactions", `{"transaction_type":"expense","transaction_name":"a","amount":1,"transaction_date":"2026-01-01"}`, http.StatusOK},
		{http.MethodDelete, "/api/transactions?id=1", "", http.StatusOK},
		{http.MethodOptions, "/api/transactions", "", http.StatusNoContent},
		{http.MethodPost, "/api/upload-url", "", http.StatusOK},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}

	router := testRouter()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_CORSOnResponses(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/upload-url", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecipients(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, recipients(" a@x.com, ,b@x.com "))
	assert.Nil(t, recipients(""))
}

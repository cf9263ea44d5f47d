package handler

import (
	"context"
	"io"
	"time"

	"github.com/rocjay1/finance-tracker/internal/importer"
	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/rocjay1/finance-tracker/internal/services"
)

// MockTransactionStore is a mock implementation of TransactionStore
type MockTransactionStore struct {
	BulkInsertFunc func(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error)
	InsertFunc     func(ctx context.Context, rec models.ImportRecord) (models.RecordID, error)
	DeleteFunc     func(ctx context.Context, id models.RecordID) error
}

func (m *MockTransactionStore) BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	if m.BulkInsertFunc != nil {
		return m.BulkInsertFunc(ctx, records)
	}
	return &models.BatchResult{}, nil
}

func (m *MockTransactionStore) Insert(ctx context.Context, rec models.ImportRecord) (models.RecordID, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, rec)
	}
	return "", nil
}

func (m *MockTransactionStore) Delete(ctx context.Context, id models.RecordID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockURLSigner is a mock implementation of URLSigner
type MockURLSigner struct {
	SignedUploadURLFunc func(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error)
}

func (m *MockURLSigner) SignedUploadURL(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error) {
	if m.SignedUploadURLFunc != nil {
		return m.SignedUploadURLFunc(ctx, objectName, contentType, ttl)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueImportFunc func(ctx context.Context, msg services.ImportMessage) error
}

func (m *MockQueueClient) EnqueueImport(ctx context.Context, msg services.ImportMessage) error {
	if m.EnqueueImportFunc != nil {
		return m.EnqueueImportFunc(ctx, msg)
	}
	return nil
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendImportSummaryFunc func(ctx context.Context, recipients []string, filename string, count int, warnings []string) error
	SendErrorEmailFunc    func(ctx context.Context, recipients []string, filename string, errs []string) error
}

func (m *MockEmailClient) SendImportSummary(ctx context.Context, recipients []string, filename string, count int, warnings []string) error {
	if m.SendImportSummaryFunc != nil {
		return m.SendImportSummaryFunc(ctx, recipients, filename, count, warnings)
	}
	return nil
}

func (m *MockEmailClient) SendErrorEmail(ctx context.Context, recipients []string, filename string, errs []string) error {
	if m.SendErrorEmailFunc != nil {
		return m.SendErrorEmailFunc(ctx, recipients, filename, errs)
	}
	return nil
}

// MockImporter is a mock implementation of Importer
type MockImporter struct {
	ImportFunc func(ctx context.Context, src io.Reader) (*importer.Outcome, error)
}

func (m *MockImporter) Import(ctx context.Context, src io.Reader) (*importer.Outcome, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, src)
	}
	return &importer.Outcome{Success: true}, nil
}

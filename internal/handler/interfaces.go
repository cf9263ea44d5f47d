package handler

import (
	"context"
	"io"
	"time"

	"github.com/rocjay1/finance-tracker/internal/importer"
	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/rocjay1/finance-tracker/internal/services"
)

// TransactionStore is the remote table the endpoints write to.
type TransactionStore interface {
	BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error)
	Insert(ctx context.Context, rec models.ImportRecord) (models.RecordID, error)
	Delete(ctx context.Context, id models.RecordID) error
}

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// URLSigner issues time-limited write URLs for direct browser uploads.
type URLSigner interface {
	SignedUploadURL(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueImport(ctx context.Context, msg services.ImportMessage) error
}

// EmailClient sends import notifications.
type EmailClient interface {
	SendImportSummary(ctx context.Context, recipients []string, filename string, count int, warnings []string) error
	SendErrorEmail(ctx context.Context, recipients []string, filename string, errs []string) error
}

// Importer runs a CSV import against the server-side ledger.
type Importer interface {
	Import(ctx context.Context, src io.Reader) (*importer.Outcome, error)
}

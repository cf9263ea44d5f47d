package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/google/uuid"
	"github.com/rocjay1/finance-tracker/internal/models"
)

// ErrTransactionNotFound is returned when deleting an id the store does not hold.
var ErrTransactionNotFound = errors.New("transaction not found")

// All transactions share one partition so a chunk can be written in a single
// entity group transaction.
const transactionsPartition = "TRANSACTIONS"

// Azure Table Storage accepts at most 100 actions per transaction.
const tableBatchSize = 100

// TableStore keeps transactions in Azure Table Storage.
type TableStore struct {
	client    *aztables.Client
	tableName string
}

// NewTableStore connects to TABLE_SERVICE_URL and makes sure the table exists.
func NewTableStore(ctx context.Context) (*TableStore, error) {
	tableURL := os.Getenv("TABLE_SERVICE_URL")
	if tableURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}

	tableName := os.Getenv("TRANSACTIONS_TABLE")
	if tableName == "" {
		tableName = "transactions"
	}

	var service *aztables.ServiceClient
	if isLocal(tableURL) {
		slog.Info("using Azurite credentials for table store")
		name, key := getAzuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		service, err = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		service, err = aztables.NewServiceClient(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	if _, err := service.CreateTable(ctx, tableName, nil); err != nil {
		var azErr *azcore.ResponseError
		if !errors.As(err, &azErr) || azErr.ErrorCode != string(aztables.TableAlreadyExists) {
			return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}

	slog.Info("table store initialized successfully", "table_url", tableURL, "table", tableName)
	return &TableStore{client: service.NewClient(tableName), tableName: tableName}, nil
}

// tableEntity builds the stored entity for rec under rowKey.
func tableEntity(rowKey string, rec models.ImportRecord, importedAt string) map[string]any {
	return map[string]any{
		"PartitionKey":    transactionsPartition,
		"RowKey":          rowKey,
		"TransactionType": string(rec.Type),
		"Category":        rec.Category,
		"TransactionName": rec.Name,
		"Amount":          rec.Amount.InexactFloat64(),
		"AmountText":      rec.Amount.String(),
		"TransactionDate": rec.Date,
		"PaymentMode":     rec.PaymentMode,
		"Remarks":         rec.Remarks,
		"ImportedAt":      importedAt,
	}
}

// BulkInsert stores records in chunks of entity group transactions. If a later
// chunk fails, chunks already committed are deleted again so the batch is all
// or nothing. ids[i] is the row key of records[i].
func (s *TableStore) BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	if len(records) == 0 {
		return &models.BatchResult{IDs: []models.RecordID{}}, nil
	}

	importedAt := time.Now().UTC().Format(time.RFC3339)
	ids := make([]models.RecordID, len(records))
	actions := make([]aztables.TransactionAction, len(records))
	for i, rec := range records {
		rowKey := uuid.New().String()
		ids[i] = models.RecordID(rowKey)

		entity, err := json.Marshal(tableEntity(rowKey, rec, importedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to encode entity %d: %w", i, err)
		}
		actions[i] = aztables.TransactionAction{ActionType: aztables.TransactionTypeAdd, Entity: entity}
	}

	for start := 0; start < len(actions); start += tableBatchSize {
		end := min(start+tableBatchSize, len(actions))
		if _, err := s.client.SubmitTransaction(ctx, actions[start:end], nil); err != nil {
			slog.Error("table batch failed, rolling back", "batch_start", start, "batch_end", end, "error", err)
			s.rollback(ctx, ids[:start])
			return nil, fmt.Errorf("failed to submit transaction batch %d-%d: %w", start, end, err)
		}
	}

	slog.Info("bulk inserted transactions", "table", s.tableName, "count", len(records))
	return &models.BatchResult{
		Count:   len(records),
		IDs:     ids,
		Message: fmt.Sprintf("Successfully imported %d transactions", len(records)),
	}, nil
}

func (s *TableStore) rollback(ctx context.Context, ids []models.RecordID) {
	for _, id := range ids {
		if _, err := s.client.DeleteEntity(ctx, transactionsPartition, string(id), nil); err != nil {
			slog.Error("failed to roll back inserted entity", "row_key", id, "error", err)
		}
	}
}

// Insert stores a single record.
func (s *TableStore) Insert(ctx context.Context, rec models.ImportRecord) (models.RecordID, error) {
	rowKey := uuid.New().String()
	entity, err := json.Marshal(tableEntity(rowKey, rec, time.Now().UTC().Format(time.RFC3339)))
	if err != nil {
		return "", fmt.Errorf("failed to encode entity: %w", err)
	}
	if _, err := s.client.AddEntity(ctx, entity, nil); err != nil {
		return "", fmt.Errorf("failed to add entity: %w", err)
	}
	return models.RecordID(rowKey), nil
}

// Delete removes the transaction with row key id.
func (s *TableStore) Delete(ctx context.Context, id models.RecordID) error {
	_, err := s.client.DeleteEntity(ctx, transactionsPartition, string(id), nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == string(aztables.ResourceNotFound) {
			return fmt.Errorf("row key %s: %w", id, ErrTransactionNotFound)
		}
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

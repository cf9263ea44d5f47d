package importer

import (
	"context"
	"errors"

	"github.com/rocjay1/finance-tracker/internal/models"
)

type MockBulkInserter struct {
	BulkInsertFunc func(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error)
	Calls          int
}

func (m *MockBulkInserter) BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	m.Calls++
	if m.BulkInsertFunc != nil {
		return m.BulkInsertFunc(ctx, records)
	}
	return nil, errors.New("BulkInsertFunc not set")
}

// sequentialIDs answers every batch with ids "1".."n".
func sequentialIDs(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	ids := make([]models.RecordID, len(records))
	for i := range records {
		ids[i] = models.RecordID(string(rune('1' + i)))
	}
	return &models.BatchResult{Count: len(records), IDs: ids}, nil
}

type MockLedger struct {
	MergeFunc func(ctx context.Context, txns []models.LocalTransaction) ([]models.LocalTransaction, error)
	Merged    [][]models.LocalTransaction
}

func (m *MockLedger) Merge(ctx context.Context, txns []models.LocalTransaction) ([]models.LocalTransaction, error) {
	m.Merged = append(m.Merged, txns)
	if m.MergeFunc != nil {
		return m.MergeFunc(ctx, txns)
	}
	return txns, nil
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

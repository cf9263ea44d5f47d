// Package importer drives a CSV import from raw text to reconciled local
// transactions.
package importer

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/rocjay1/finance-tracker/internal/csvparse"
	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/models"
)

const (
	msgReadFailed     = "Failed to read file"
	msgNoTransactions = "No valid transactions found in CSV file"
	msgBadResponse    = "Invalid response from server"
	msgSaveFailed     = "Failed to save transactions locally"
	msgInFlight       = "An import is already in progress"
)

// BulkInserter stores a batch remotely. IDs[i] of the result belongs to records[i].
type BulkInserter interface {
	BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error)
}

// Ledger is the local transaction collection imports are merged into.
type Ledger interface {
	Merge(ctx context.Context, txns []models.LocalTransaction) ([]models.LocalTransaction, error)
}

// Outcome is the result of a successful import.
type Outcome struct {
	Success bool
	// Count is the number of records the remote store reported inserting.
	Count int
	// Added holds the records reconciled by this import, in file order.
	Added []models.LocalTransaction
	// Transactions is the whole local collection after the merge.
	Transactions []models.LocalTransaction
	// Warnings are the row-level messages from parsing. Callers cap them for display.
	Warnings []string
}

// Coordinator runs imports against one local collection. At most one import
// runs at a time; a concurrent call fails with KindInFlight.
type Coordinator struct {
	inserter BulkInserter
	ledger   Ledger
	now      func() time.Time
	running  atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock replaces time.Now as the source of local ids.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator returns a Coordinator that uploads through inserter and
// merges into ledger.
func NewCoordinator(inserter BulkInserter, ledger Ledger, opts ...Option) *Coordinator {
	c := &Coordinator{inserter: inserter, ledger: ledger, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Import reads src to the end, parses it, uploads the accepted records as one
// batch and merges them into the ledger. Either every accepted record is
// merged or the ledger is left untouched.
func (c *Coordinator) Import(ctx context.Context, src io.Reader) (*Outcome, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, fail(KindInFlight, msgInFlight, nil)
	}
	defer c.running.Store(false)

	logger := logging.FromContext(ctx)

	raw, err := io.ReadAll(src)
	if err != nil {
		logger.Error("failed to read import source", "error", err)
		return nil, fail(KindSourceRead, msgReadFailed, err)
	}

	parsed, err := csvparse.Parse(string(raw))
	if err != nil {
		logger.Error("csv rejected", "error", err)
		return nil, fail(KindStructural, err.Error(), err)
	}
	for _, w := range parsed.Errors {
		logger.Warn("skipped csv row", "reason", w)
	}
	logger.Info("parsed csv", "accepted", len(parsed.Records), "rejected", len(parsed.Errors))

	if len(parsed.Records) == 0 {
		return nil, fail(KindEmptyResult, msgNoTransactions, nil)
	}

	result, err := c.inserter.BulkInsert(ctx, parsed.Records)
	if err != nil {
		logger.Error("bulk insert failed", "records", len(parsed.Records), "error", err)
		return nil, fail(KindTransport, err.Error(), err)
	}
	if result == nil {
		logger.Error("bulk insert returned no result", "records", len(parsed.Records))
		return nil, fail(KindTransport, msgBadResponse, nil)
	}
	logger.Info("uploaded transactions", "count", result.Count, "ids", len(result.IDs))

	added := Reconcile(ctx, parsed.Records, result.IDs, c.now())

	all, err := c.ledger.Merge(ctx, added)
	if err != nil {
		logger.Error("failed to merge into ledger", "added", len(added), "error", err)
		return nil, fail(KindPersist, msgSaveFailed, err)
	}
	logger.Info("import complete", "added", len(added), "total", len(all))

	return &Outcome{
		Success:      true,
		Count:        result.Count,
		Added:        added,
		Transactions: all,
		Warnings:     parsed.Errors,
	}, nil
}

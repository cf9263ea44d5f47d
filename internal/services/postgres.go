package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rocjay1/finance-tracker/internal/models"
)

const createTransactionsTable = `
	CREATE TABLE IF NOT EXISTS transactions (
		id               BIGSERIAL PRIMARY KEY,
		transaction_type TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		transaction_name TEXT NOT NULL,
		amount           NUMERIC(14, 2) NOT NULL,
		transaction_date DATE NOT NULL,
		payment_mode     TEXT NOT NULL DEFAULT '',
		remarks          TEXT NOT NULL DEFAULT ''
	)`

const insertTransaction = `
	INSERT INTO transactions
		(transaction_type, category, transaction_name, amount, transaction_date, payment_mode, remarks)
	VALUES ($1, $2, $3, $4::numeric, $5::date, $6, $7)
	RETURNING id`

// PostgresStore keeps transactions in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects using DATABASE_URL and creates the table if needed.
func NewPostgresStore(ctx context.Context) (*PostgresStore, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresStoreFromPool(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("postgres store initialized successfully")
	return store, nil
}

// NewPostgresStoreFromPool wraps an existing pool.
func NewPostgresStoreFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the transactions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTransactionsTable); err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}
	return nil
}

func insertArgs(rec models.ImportRecord) []any {
	return []any{
		string(rec.Type),
		rec.Category,
		rec.Name,
		rec.Amount.String(),
		rec.Date,
		rec.PaymentMode,
		rec.Remarks,
	}
}

// BulkInsert inserts all records in one database transaction. The batch is
// queued in order, so ids[i] is the id generated for records[i].
func (s *PostgresStore) BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	if len(records) == 0 {
		return &models.BatchResult{IDs: []models.RecordID{}}, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertTransaction, insertArgs(rec)...)
	}

	results := tx.SendBatch(ctx, batch)
	ids := make([]models.RecordID, 0, len(records))
	for i := range records {
		var id int64
		if err := results.QueryRow().Scan(&id); err != nil {
			results.Close()
			return nil, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		ids = append(ids, models.RecordID(strconv.FormatInt(id, 10)))
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("bulk inserted transactions", "count", len(ids))
	return &models.BatchResult{
		Count:   len(ids),
		IDs:     ids,
		Message: fmt.Sprintf("Successfully imported %d transactions", len(ids)),
	}, nil
}

// Insert stores one record and returns its id.
func (s *PostgresStore) Insert(ctx context.Context, rec models.ImportRecord) (models.RecordID, error) {
	var id int64
	if err := s.pool.QueryRow(ctx, insertTransaction, insertArgs(rec)...).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}
	return models.RecordID(strconv.FormatInt(id, 10)), nil
}

// Delete removes the transaction with the given numeric id.
func (s *PostgresStore) Delete(ctx context.Context, id models.RecordID) error {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q: %w", id, ErrTransactionNotFound)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", n, ErrTransactionNotFound)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}


// Package ledger owns the locally persisted transaction collection.
//
// The collection is stored as one JSON array behind a Backend that other
// processes may write too. The Repository keeps an in-memory copy for reads;
// every mutation reloads the backend first and replaces the copy only after a
// successful save.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rocjay1/finance-tracker/internal/models"
)

// ErrNotFound is returned when a local transaction id is unknown.
var ErrNotFound = errors.New("transaction not found")

// Backend reads and writes the serialized collection.
// Load returns nil data, and no error, when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Repository is the single owner of the local collection.
type Repository struct {
	mu      sync.Mutex
	backend Backend
	cache   []models.LocalTransaction
	loaded  bool
}

// NewRepository creates a Repository on top of backend.
func NewRepository(backend Backend) *Repository {
	return &Repository{backend: backend}
}

// All returns a copy of the collection, newest first as stored.
func (r *Repository) All(ctx context.Context) ([]models.LocalTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return clone(r.cache), nil
}

// Merge appends txns to the stored collection, re-sorts it by date descending
// and persists it. Either every record is stored or none is.
func (r *Repository) Merge(ctx context.Context, txns []models.LocalTransaction) ([]models.LocalTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}

	merged := make([]models.LocalTransaction, 0, len(r.cache)+len(txns))
	merged = append(merged, r.cache...)
	merged = append(merged, txns...)
	SortByDateDesc(merged)

	if err := r.save(ctx, merged); err != nil {
		return nil, err
	}
	slog.Info("merged transactions into ledger", "added", len(txns), "total", len(merged))
	return clone(merged), nil
}

// Delete removes the transaction with the given local id and returns it, so
// the caller can issue the remote delete keyed on its DBID.
func (r *Repository) Delete(ctx context.Context, localID int64) (*models.LocalTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}

	for i, txn := range r.cache {
		if txn.ID != localID {
			continue
		}
		remaining := make([]models.LocalTransaction, 0, len(r.cache)-1)
		remaining = append(remaining, r.cache[:i]...)
		remaining = append(remaining, r.cache[i+1:]...)
		if err := r.save(ctx, remaining); err != nil {
			return nil, err
		}
		removed := txn
		return &removed, nil
	}
	return nil, fmt.Errorf("local id %d: %w", localID, ErrNotFound)
}

func (r *Repository) ensureLoaded(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	return r.load(ctx)
}

// load replaces the cached copy with what the backend holds now.
func (r *Repository) load(ctx context.Context) error {
	data, err := r.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	txns := []models.LocalTransaction{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &txns); err != nil {
			return fmt.Errorf("failed to decode ledger: %w", err)
		}
	}

	r.cache = txns
	r.loaded = true
	return nil
}

func (r *Repository) save(ctx context.Context, txns []models.LocalTransaction) error {
	data, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := r.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	r.cache = txns
	return nil
}

// SortByDateDesc orders txns newest first. Equal dates keep their relative order.
func SortByDateDesc(txns []models.LocalTransaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date > txns[j].Date
	})
}

func clone(txns []models.LocalTransaction) []models.LocalTransaction {
	return append([]models.LocalTransaction{}, txns...)
}

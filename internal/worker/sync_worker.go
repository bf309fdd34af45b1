// Package worker mirrors the persisted ledger into a spreadsheet.
package worker

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ledgerly/internal/core"
	"ledgerly/internal/kv"
	"ledgerly/internal/ledger"
	"ledgerly/internal/log"
	"ledgerly/internal/sheets"
)

// SyncWorker reads the ledger straight from the shared medium and pushes
// it to the mirror. It never talks to the server process directly: change
// messages only tell it that something moved.
type SyncWorker struct {
	medium     kv.Medium
	mirror     sheets.TransactionMirror
	categories sheets.CategoryMirror
	logger     *slog.Logger

	mu          sync.Mutex
	lastTxs     [32]byte
	lastCats    [32]byte
	lastVersion uint64
}

// NewSyncWorker creates a worker. categories may be nil.
func NewSyncWorker(medium kv.Medium, mirror sheets.TransactionMirror, categories sheets.CategoryMirror, logger *slog.Logger) *SyncWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncWorker{medium: medium, mirror: mirror, categories: categories, logger: logger}
}

// HandleChange processes one change message. An error makes the consumer
// requeue the message.
func (w *SyncWorker) HandleChange(ctx context.Context, ev core.ChangeEvent) error {
	w.logger.InfoContext(ctx, "Processing change event",
		"op", ev.Op, "version", ev.Version, "count", ev.Count)

	w.mu.Lock()
	if ev.Version > w.lastVersion {
		w.lastVersion = ev.Version
	}
	w.mu.Unlock()

	if err := w.Sync(ctx); err != nil {
		return fmt.Errorf("sync after %s: %w", ev.Op, err)
	}
	return nil
}

// Sync mirrors the current persisted state. Lists identical to the last
// mirrored ones are skipped.
func (w *SyncWorker) Sync(ctx context.Context) error {
	txs, err := kv.Read[[]core.Transaction](ctx, w.medium, ledger.TransactionsKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		txs = []core.Transaction{}
	case err != nil:
		return fmt.Errorf("read transactions: %w", err)
	}

	if sum, changed := w.changed(&w.lastTxs, txs); changed {
		if err := w.mirror.ReplaceTransactions(ctx, txs); err != nil {
			return fmt.Errorf("mirror transactions: %w", err)
		}
		w.remember(&w.lastTxs, sum)
		w.logger.InfoContext(ctx, "Transactions mirrored", log.FieldOperation, log.OpSync, log.FieldCount, len(txs))
	} else {
		w.logger.DebugContext(ctx, "Transactions unchanged, skipping mirror", log.FieldOperation, log.OpSync)
	}

	if w.categories == nil {
		return nil
	}
	cats, err := kv.Read[[]core.Category](ctx, w.medium, ledger.CategoriesKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		cats = core.DefaultCategories()
	case err != nil:
		return fmt.Errorf("read categories: %w", err)
	}
	if sum, changed := w.changed(&w.lastCats, cats); changed {
		if err := w.categories.ReplaceCategories(ctx, cats); err != nil {
			return fmt.Errorf("mirror categories: %w", err)
		}
		w.remember(&w.lastCats, sum)
		w.logger.InfoContext(ctx, "Categories mirrored", log.FieldOperation, log.OpSync, log.FieldCount, len(cats))
	}
	return nil
}

// LastVersion is the highest change version seen so far.
func (w *SyncWorker) LastVersion() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastVersion
}

func (w *SyncWorker) changed(last *[32]byte, v any) ([32]byte, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return [32]byte{}, true
	}
	sum := sha256.Sum256(data)
	w.mu.Lock()
	defer w.mu.Unlock()
	return sum, sum != *last
}

func (w *SyncWorker) remember(last *[32]byte, sum [32]byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	*last = sum
}

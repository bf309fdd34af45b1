// Package ledger owns the canonical transaction and category lists.
//
// Every mutation builds a new list, swaps it in under the write lock and
// persists it synchronously through the key-value store. Readers always
// receive copies, so no caller ever observes a partially applied change.
package ledger

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/kv"

	"github.com/google/uuid"
)

// Storage keys for the two persisted lists.
const (
	TransactionsKey = "transactions"
	CategoriesKey   = "categories"
)

// Notifier receives a change event after every successful mutation.
type Notifier interface {
	Notify(ctx context.Context, ev core.ChangeEvent) error
}

type Repository struct {
	mu           sync.RWMutex
	transactions *kv.Value[[]core.Transaction]
	categories   *kv.Value[[]core.Category]
	version      uint64

	pendingEdit     *core.Transaction
	pendingDeletion *core.Transaction

	currency string
	notifier Notifier
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time

	// storageLogger tags kv load and store failures.
	storageLogger *slog.Logger
}

type Option func(*Repository)

// WithCurrency sets the currency assigned to new transactions.
func WithCurrency(code string) Option {
	return func(r *Repository) {
		if code != "" {
			r.currency = code
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(r *Repository) { r.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStorageLogger sets the logger used for persistence failures. It
// defaults to the repository logger.
func WithStorageLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.storageLogger = l }
}

// WithIDGenerator replaces the default txn-<uuid> generator.
func WithIDGenerator(f func() string) Option {
	return func(r *Repository) {
		if f != nil {
			r.newID = f
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewTransactionID returns a fresh transaction id.
func NewTransactionID() string {
	return "txn-" + uuid.NewString()
}

// NewRepository restores both lists from medium, falling back to an empty
// transaction list and the default categories. A nil medium keeps
// everything in memory.
func NewRepository(ctx context.Context, medium kv.Medium, opts ...Option) *Repository {
	r := &Repository{
		currency: core.DefaultCurrency,
		logger:   slog.Default(),
		newID:    NewTransactionID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	storageLogger := r.storageLogger
	if storageLogger == nil {
		storageLogger = r.logger
	}
	r.transactions = kv.NewValue(ctx, medium, TransactionsKey, []core.Transaction{}, storageLogger)
	r.categories = kv.NewValue(ctx, medium, CategoriesKey, core.DefaultCategories(), storageLogger)
	return r
}

// Currency returns the default currency for new transactions.
func (r *Repository) Currency() string { return r.currency }

// Transactions returns a copy of the current list, newest user entries first.
func (r *Repository) Transactions() []core.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.transactions.Get())
}

// Categories returns a copy of the category list.
func (r *Repository) Categories() []core.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.categories.Get())
}

// Version increases by one on every successful mutation.
func (r *Repository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Snapshot is a consistent view of the ledger at one version.
type Snapshot struct {
	Transactions []core.Transaction
	Categories   []core.Category
	Version      uint64
}

func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Transactions: slices.Clone(r.transactions.Get()),
		Categories:   slices.Clone(r.categories.Get()),
		Version:      r.version,
	}
}

// Get looks a transaction up by id.
func (r *Repository) Get(id string) (core.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions.Get() {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// Add assigns an id and the default currency, prepends and persists.
// Input validation is the caller's job.
func (r *Repository) Add(ctx context.Context, in core.NewTransaction) core.Transaction {
	r.mu.Lock()
	tx := in.Build(r.newID(), r.currency)
	current := r.transactions.Get()
	next := make([]core.Transaction, 0, len(current)+1)
	next = append(next, tx)
	next = append(next, current...)
	r.transactions.Set(ctx, next)
	ev := r.bumpLocked(core.OpAdded, tx.ID, 1)
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Transaction added", "id", tx.ID, "type", tx.Type, "amount", tx.Amount.String())
	r.notify(ctx, ev)
	return tx
}

// Update replaces the entry with the same id. It reports false, and
// writes nothing, when no entry matches.
func (r *Repository) Update(ctx context.Context, tx core.Transaction) bool {
	if tx.Currency == "" {
		tx.Currency = r.currency
	}

	r.mu.Lock()
	current := r.transactions.Get()
	idx := slices.IndexFunc(current, func(t core.Transaction) bool { return t.ID == tx.ID })
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	next := slices.Clone(current)
	next[idx] = tx
	r.transactions.Set(ctx, next)
	ev := r.bumpLocked(core.OpUpdated, tx.ID, 1)
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Transaction updated", "id", tx.ID)
	r.notify(ctx, ev)
	return true
}

// Delete removes the entry with id. Deleting an unknown id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	current := r.transactions.Get()
	idx := slices.IndexFunc(current, func(t core.Transaction) bool { return t.ID == id })
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	next := make([]core.Transaction, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	r.transactions.Set(ctx, next)
	ev := r.bumpLocked(core.OpDeleted, id, 1)

	if r.pendingDeletion != nil && r.pendingDeletion.ID == id {
		r.pendingDeletion = nil
	}
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Transaction deleted", "id", id)
	r.notify(ctx, ev)
	return true
}

func (r *Repository) bumpLocked(op core.ChangeOp, id string, count int) core.ChangeEvent {
	r.version++
	return core.ChangeEvent{
		Op:            op,
		TransactionID: id,
		Count:         count,
		Version:       r.version,
		Timestamp:     r.now().UTC(),
	}
}

func (r *Repository) notify(ctx context.Context, ev core.ChangeEvent) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, ev); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish change event",
			"op", ev.Op, "version", ev.Version, "error", err)
	}
}

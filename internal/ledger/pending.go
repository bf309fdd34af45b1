package ledger

import (
	"time"

	"ledgerly/internal/core"
)

// SetPendingEdit stores the transaction currently being edited. nil clears
// the slot.
func (r *Repository) SetPendingEdit(tx *core.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingEdit = clonePtr(tx)
}

func (r *Repository) PendingEdit() *core.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clonePtr(r.pendingEdit)
}

// SetPendingDeletion stores the transaction awaiting delete confirmation.
func (r *Repository) SetPendingDeletion(tx *core.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDeletion = clonePtr(tx)
}

func (r *Repository) PendingDeletion() *core.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clonePtr(r.pendingDeletion)
}

// NewDraft fills the edit slot with a blank transaction and returns it. The
// empty id marks the draft as not yet added.
func (r *Repository) NewDraft() core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	category := core.OtherCategory
	if cats := r.categories.Get(); len(cats) > 0 && cats[0].Name != "" {
		category = cats[0].Name
	}
	draft := core.Transaction{
		Date:     core.DateOf(r.now().UTC().Truncate(time.Millisecond)),
		Amount:   core.MoneyFromInt(0),
		Type:     core.Expense,
		Category: category,
		Currency: r.currency,
	}
	r.pendingEdit = &draft
	return draft
}

func clonePtr(tx *core.Transaction) *core.Transaction {
	if tx == nil {
		return nil
	}
	c := *tx
	return &c
}

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/ledger"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 30, 0, time.UTC)

func newTestLedger(t *testing.T) *ledger.Repository {
	t.Helper()
	n := 0
	return ledger.NewRepository(context.Background(), nil,
		ledger.WithLogger(quietLogger()),
		ledger.WithClock(func() time.Time { return fixedNow }),
		ledger.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func newTestTransactionService(t *testing.T) (*TransactionService, *ledger.Repository) {
	t.Helper()
	repo := newTestLedger(t)
	svc := NewTransactionService(repo, quietLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func validInput() core.NewTransaction {
	return core.NewTransaction{
		Date:        core.NewDate(2025, 6, 1),
		Description: "Groceries",
		Amount:      core.MustMoney("42.50"),
		Type:        core.Expense,
		Category:    "Food & Drink",
	}
}

func TestTransactionService_Create(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*core.NewTransaction)
		wantErr error
	}{
		{"valid", func(*core.NewTransaction) {}, nil},
		{"short description", func(n *core.NewTransaction) { n.Description = "a" }, core.ErrShortDescription},
		{"zero amount", func(n *core.NewTransaction) { n.Amount = core.MustMoney("0") }, core.ErrInvalidAmount},
		{"future date", func(n *core.NewTransaction) { n.Date = core.NewDate(2025, 7, 1) }, core.ErrFutureDate},
		{"bad type", func(n *core.NewTransaction) { n.Type = "gift" }, core.ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestTransactionService(t)
			in := validInput()
			tt.mutate(&in)

			tx, err := svc.Create(context.Background(), in)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				if tx.ID != "id-1" || tx.Currency != core.DefaultCurrency {
					t.Errorf("unexpected transaction %+v", tx)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want ValidationError wrapping %v", err, tt.wantErr)
			}
			if len(repo.Transactions()) != 0 {
				t.Error("rejected input reached the ledger")
			}
		})
	}
}

func TestTransactionService_Edit(t *testing.T) {
	svc, repo := newTestTransactionService(t)
	ctx := context.Background()
	tx, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}

	tx.Description = "Weekly groceries"
	tx.Currency = ""
	got, err := svc.Edit(ctx, tx)
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got.Currency != core.DefaultCurrency {
		t.Errorf("currency = %q, want default", got.Currency)
	}
	if stored, _ := repo.Get(tx.ID); stored.Description != "Weekly groceries" {
		t.Errorf("stored description = %q", stored.Description)
	}

	tx.Description = ""
	if _, err := svc.Edit(ctx, tx); !errors.Is(err, core.ErrEmptyDescription) {
		t.Errorf("Edit(empty description) error = %v", err)
	}

	missing := tx
	missing.ID = "nope"
	missing.Description = "Something"
	if _, err := svc.Edit(ctx, missing); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Edit(unknown) error = %v, want ErrTransactionNotFound", err)
	}
}

func TestTransactionService_Remove(t *testing.T) {
	svc, repo := newTestTransactionService(t)
	ctx := context.Background()
	tx, _ := svc.Create(ctx, validInput())

	if err := svc.Remove(ctx, tx.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(repo.Transactions()) != 0 {
		t.Error("transaction still present")
	}
	if err := svc.Remove(ctx, tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("second Remove() error = %v, want ErrTransactionNotFound", err)
	}
}

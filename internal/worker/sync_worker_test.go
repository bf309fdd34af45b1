package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/kv"
	"ledgerly/internal/ledger"
	"ledgerly/internal/sheets/memory"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func seededMedium(t *testing.T) (*kv.Memory, *ledger.Repository) {
	t.Helper()
	medium := kv.NewMemory()
	repo := ledger.NewRepository(context.Background(), medium,
		ledger.WithLogger(quiet()),
		ledger.WithClock(func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }))
	return medium, repo
}

func TestSyncEmptyMedium(t *testing.T) {
	mirror := memory.New()
	w := NewSyncWorker(kv.NewMemory(), mirror, mirror, quiet())

	if err := w.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if rows := mirror.Rows(); len(rows) != 1 {
		t.Errorf("rows = %v, want header only", rows)
	}
	if cats := mirror.CategoryRows(); len(cats) != 17 {
		t.Errorf("category rows = %d, want header + 16 defaults", len(cats))
	}
}

func TestHandleChangeMirrorsPersistedState(t *testing.T) {
	medium, repo := seededMedium(t)
	mirror := memory.New()
	w := NewSyncWorker(medium, mirror, nil, quiet())
	ctx := context.Background()

	tx := repo.Add(ctx, core.NewTransaction{
		Date: core.NewDate(2025, 6, 1), Description: "Lunch", Amount: core.MustMoney("12"), Type: core.Expense, Category: "Food & Drink",
	})
	if err := w.HandleChange(ctx, core.ChangeEvent{Op: core.OpAdded, TransactionID: tx.ID, Count: 1, Version: repo.Version()}); err != nil {
		t.Fatalf("HandleChange() error = %v", err)
	}

	rows := mirror.Rows()
	if len(rows) != 2 || rows[1][0] != tx.ID || rows[1][2] != "Lunch" {
		t.Errorf("unexpected rows %v", rows)
	}
	if w.LastVersion() != 1 {
		t.Errorf("LastVersion() = %d, want 1", w.LastVersion())
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	medium, repo := seededMedium(t)
	mirror := memory.New()
	w := NewSyncWorker(medium, mirror, nil, quiet())
	ctx := context.Background()

	repo.Add(ctx, core.NewTransaction{
		Date: core.NewDate(2025, 6, 1), Description: "Lunch", Amount: core.MustMoney("12"), Type: core.Expense, Category: "Food & Drink",
	})
	for i := 0; i < 3; i++ {
		if err := w.Sync(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if mirror.Writes() != 1 {
		t.Errorf("writes = %d, want 1", mirror.Writes())
	}

	repo.Delete(ctx, repo.Transactions()[0].ID)
	if err := w.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	if mirror.Writes() != 2 || len(mirror.Rows()) != 1 {
		t.Errorf("delete not mirrored: writes=%d rows=%v", mirror.Writes(), mirror.Rows())
	}
}

func TestSyncMirrorFailureRetriesNextTime(t *testing.T) {
	medium, repo := seededMedium(t)
	mirror := memory.New()
	w := NewSyncWorker(medium, mirror, nil, quiet())
	ctx := context.Background()

	repo.Add(ctx, core.NewTransaction{
		Date: core.NewDate(2025, 6, 1), Description: "Lunch", Amount: core.MustMoney("12"), Type: core.Expense, Category: "Food & Drink",
	})

	mirror.FailWith(errors.New("quota"))
	if err := w.HandleChange(ctx, core.ChangeEvent{Op: core.OpAdded, Version: 1}); err == nil {
		t.Fatal("expected error from failing mirror")
	}

	mirror.FailWith(nil)
	if err := w.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	if mirror.Writes() != 1 {
		t.Errorf("writes = %d, want 1", mirror.Writes())
	}
}

func TestSyncCorruptData(t *testing.T) {
	medium := kv.NewMemory()
	medium.Store(context.Background(), ledger.TransactionsKey, []byte("{nope"))
	w := NewSyncWorker(medium, memory.New(), nil, quiet())
	if err := w.Sync(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSyncLogsOperation(t *testing.T) {
	var buf bytes.Buffer
	mirror := memory.New()
	w := NewSyncWorker(kv.NewMemory(), mirror, nil, slog.New(slog.NewTextHandler(&buf, nil)))

	if err := w.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if !strings.Contains(buf.String(), "operation=sync") {
		t.Errorf("log = %q, want operation=sync", buf.String())
	}
}

package memory

import (
	"context"
	"errors"
	"testing"

	"ledgerly/internal/core"

	"github.com/google/go-cmp/cmp"
)

func TestReplaceTransactions(t *testing.T) {
	s := New()
	txs := []core.Transaction{{
		ID: "t1", Date: core.NewDate(2025, 6, 1), Description: "Coffee",
		Amount: core.MustMoney("3.5"), Type: core.Expense, Category: "Food & Drink", Currency: "USD",
	}}
	if err := s.ReplaceTransactions(context.Background(), txs); err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"id", "date", "description", "amount", "type", "category", "currency"},
		{"t1", "2025-06-01T00:00:00Z", "Coffee", "3.5", "expense", "Food & Drink", "USD"},
	}
	if diff := cmp.Diff(want, s.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	// Replacing with nothing leaves only the header.
	if err := s.ReplaceTransactions(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got := s.Rows(); len(got) != 1 {
		t.Errorf("rows after empty replace = %v", got)
	}
	if s.Writes() != 2 {
		t.Errorf("writes = %d, want 2", s.Writes())
	}
}

func TestReplaceCategories(t *testing.T) {
	s := New()
	if err := s.ReplaceCategories(context.Background(), core.DefaultCategories()[:1]); err != nil {
		t.Fatal(err)
	}
	got := s.CategoryRows()
	if len(got) != 2 || got[0][1] != "name" || got[1][1] != "Food & Drink" {
		t.Errorf("unexpected category rows %v", got)
	}
}

func TestFailWith(t *testing.T) {
	s := New()
	boom := errors.New("quota exceeded")
	s.FailWith(boom)
	if err := s.ReplaceTransactions(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if s.Writes() != 0 {
		t.Error("failed write counted")
	}
	s.FailWith(nil)
	if err := s.ReplaceTransactions(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
}

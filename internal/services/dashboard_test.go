package services

import (
	"context"
	"testing"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/ledger"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func seedDashboard(t *testing.T, repo *ledger.Repository) {
	t.Helper()
	ctx := context.Background()
	entries := []struct {
		date     core.Date
		amount   string
		typ      core.TransactionType
		category string
	}{
		// previous window
		{core.NewDate(2025, 5, 1), "800", core.Income, "Salary"},
		{core.NewDate(2025, 5, 2), "400", core.Expense, "Housing"},
		// current window
		{core.NewDate(2025, 6, 1), "1000", core.Income, "Salary"},
		{core.NewDate(2025, 6, 2), "400", core.Expense, "Food & Drink"},
		{core.NewDate(2025, 6, 3), "100", core.Saving, "Savings"},
	}
	for _, e := range entries {
		repo.Add(ctx, core.NewTransaction{
			Date: e.date, Description: "entry", Amount: core.MustMoney(e.amount), Type: e.typ, Category: e.category,
		})
	}
}

func newTestDashboard(t *testing.T) (*DashboardService, *ledger.Repository) {
	t.Helper()
	repo := newTestLedger(t)
	svc := NewDashboardService(repo, DashboardConfig{}, quietLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDashboardOverview(t *testing.T) {
	svc, repo := newTestDashboard(t)
	seedDashboard(t, repo)

	o := svc.Overview(context.Background())

	wantStart := time.Date(2025, 5, 16, 12, 0, 0, 0, time.UTC)
	if !o.WindowStart.Equal(wantStart) {
		t.Errorf("WindowStart = %v, want %v", o.WindowStart, wantStart)
	}
	if o.TransactionCount != 5 || o.Version != 5 {
		t.Errorf("count/version = %d/%d, want 5/5", o.TransactionCount, o.Version)
	}

	checks := []struct {
		name string
		got  KPI
		want KPI
	}{
		{"income", o.Income, KPI{Value: dec("1000"), Previous: dec("800"), Change: dec("25")}},
		{"expenses", o.Expenses, KPI{Value: dec("500"), Previous: dec("400"), Change: dec("25")}},
		{"balance", o.Balance, KPI{Value: dec("500"), Previous: dec("400"), Change: dec("25")}},
		{"savings rate", o.SavingsRate, KPI{Value: dec("50"), Previous: dec("50"), Change: dec("0")}},
	}
	for _, c := range checks {
		if !c.got.Value.Equal(c.want.Value) || !c.got.Previous.Equal(c.want.Previous) || !c.got.Change.Equal(c.want.Change) {
			t.Errorf("%s = %+v, want %+v", c.name, c.got, c.want)
		}
	}

	var cats []string
	for _, s := range o.SpendingByCategory {
		cats = append(cats, s.Category)
	}
	// Repository order is newest-added first.
	if diff := cmp.Diff([]string{"Savings", "Food & Drink", "Housing"}, cats); diff != "" {
		t.Errorf("spending categories mismatch (-want +got):\n%s", diff)
	}

	if len(o.BalanceOverTime) != 5 {
		t.Fatalf("balance points = %d, want 5", len(o.BalanceOverTime))
	}
	if last := o.BalanceOverTime[4].Balance; !last.Equal(dec("900")) {
		t.Errorf("final balance = %s, want 900", last)
	}
}

func TestDashboardOverviewEmpty(t *testing.T) {
	svc, _ := newTestDashboard(t)
	o := svc.Overview(context.Background())
	if o.SpendingByCategory == nil || o.BalanceOverTime == nil {
		t.Error("series must be empty slices, not nil")
	}
	if !o.Income.Change.IsZero() || !o.SavingsRate.Value.IsZero() {
		t.Errorf("unexpected non-zero KPIs: %+v", o)
	}
}

func TestDashboardOverviewCache(t *testing.T) {
	svc, repo := newTestDashboard(t)
	seedDashboard(t, repo)
	ctx := context.Background()

	first := svc.Overview(ctx)
	// A later instant inside the same minute reuses the entry.
	svc.now = func() time.Time { return fixedNow.Add(20 * time.Second) }
	second := svc.Overview(ctx)
	if hits, _ := svc.cache.Stats(); hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if first.Version != second.Version {
		t.Error("cached overview differs")
	}

	repo.Add(ctx, core.NewTransaction{
		Date: core.NewDate(2025, 6, 10), Description: "bonus", Amount: core.MustMoney("200"), Type: core.Income, Category: "Salary",
	})
	third := svc.Overview(ctx)
	if third.Version != first.Version+1 {
		t.Errorf("version = %d, want %d", third.Version, first.Version+1)
	}
	if !third.Income.Value.Equal(dec("1200")) {
		t.Errorf("income after mutation = %s, want 1200", third.Income.Value)
	}
}

package services

import (
	"context"
	"log/slog"
	"time"

	"ledgerly/internal/cache"
	"ledgerly/internal/core"
	"ledgerly/internal/ledger"
	"ledgerly/internal/metrics"

	"github.com/shopspring/decimal"
)

// DashboardConfig tunes the KPI windows and the overview cache.
type DashboardConfig struct {
	// Period is the length of the trailing window (default 30 days).
	Period time.Duration
	// Granularity truncates the clock before windows are derived, so
	// requests within the same slot share a cache entry (default 1m).
	Granularity time.Duration
	CacheSize   int
	CacheTTL    time.Duration
	Policy      metrics.Policy
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Period:      30 * 24 * time.Hour,
		Granularity: time.Minute,
		CacheSize:   32,
		CacheTTL:    5 * time.Minute,
		Policy:      metrics.DefaultPolicy,
	}
}

// KPI is one dashboard card: the current value, the previous window's
// value and the change between them.
type KPI struct {
	Value    decimal.Decimal `json:"value"`
	Previous decimal.Decimal `json:"previous"`
	Change   decimal.Decimal `json:"change"`
}

type CategorySlice struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type BalancePoint struct {
	Date    core.Date       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Overview is everything the dashboard shows for one ledger version.
type Overview struct {
	Version          uint64    `json:"version"`
	TransactionCount int       `json:"transaction_count"`
	WindowStart      time.Time `json:"window_start"`
	PreviousStart    time.Time `json:"previous_start"`
	Period           string    `json:"period"`

	Income      KPI `json:"income"`
	Expenses    KPI `json:"expenses"`
	Balance     KPI `json:"balance"`
	SavingsRate KPI `json:"savings_rate"` // change is in percentage points

	SpendingByCategory []CategorySlice `json:"spending_by_category"`
	BalanceOverTime    []BalancePoint  `json:"balance_over_time"`

	Comparison metrics.Comparison `json:"-"`
}

type overviewKey struct {
	version     uint64
	windowStart int64
}

// DashboardService computes and caches dashboard overviews.
type DashboardService struct {
	repo   *ledger.Repository
	config DashboardConfig
	cache  *cache.LRUCache[overviewKey, Overview]
	now    func() time.Time
	logger *slog.Logger
}

func NewDashboardService(repo *ledger.Repository, config DashboardConfig, logger *slog.Logger) *DashboardService {
	defaults := DefaultDashboardConfig()
	if config.Period <= 0 {
		config.Period = defaults.Period
	}
	if config.Granularity <= 0 {
		config.Granularity = defaults.Granularity
	}
	if config.CacheSize <= 0 {
		config.CacheSize = defaults.CacheSize
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if len(config.Policy.SpentTypes) == 0 {
		config.Policy = defaults.Policy
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		repo:   repo,
		config: config,
		cache:  cache.NewLRUCache[overviewKey, Overview](config.CacheSize, config.CacheTTL),
		now:    time.Now,
		logger: logger,
	}
}

// Cleaner exposes the overview cache so a cache.Manager can sweep it.
func (s *DashboardService) Cleaner() cache.Cleaner {
	return s.cache
}

// Overview returns the KPIs for the trailing windows plus both chart
// series. Results are reused until the ledger changes or the window moves.
func (s *DashboardService) Overview(ctx context.Context) Overview {
	snap := s.repo.Snapshot()
	now := s.now().UTC().Truncate(s.config.Granularity)
	current, previous := metrics.TrailingWindows(now, s.config.Period)

	key := overviewKey{version: snap.Version, windowStart: current.Start.UnixNano()}
	if o, ok := s.cache.Get(key); ok {
		return o
	}

	o := s.build(snap, current, previous)
	s.cache.Set(key, o)
	s.logger.DebugContext(ctx, "Dashboard overview computed",
		"version", snap.Version, "transactions", len(snap.Transactions))
	return o
}

func (s *DashboardService) build(snap ledger.Snapshot, current, previous metrics.Window) Overview {
	p := s.config.Policy
	cmp := p.Compare(snap.Transactions, current, previous)

	o := Overview{
		Version:          snap.Version,
		TransactionCount: len(snap.Transactions),
		WindowStart:      current.Start,
		PreviousStart:    previous.Start,
		Period:           s.config.Period.String(),
		Income:           KPI{Value: cmp.Current.Income, Previous: cmp.Previous.Income, Change: round(cmp.IncomeChange)},
		Expenses:         KPI{Value: cmp.Current.Expenses, Previous: cmp.Previous.Expenses, Change: round(cmp.ExpensesChange)},
		Balance:          KPI{Value: cmp.Current.Balance, Previous: cmp.Previous.Balance, Change: round(cmp.BalanceChange)},
		SavingsRate: KPI{
			Value:    round(cmp.Current.SavingsRate),
			Previous: round(cmp.Previous.SavingsRate),
			Change:   round(cmp.SavingsRateChange),
		},
		SpendingByCategory: []CategorySlice{},
		BalanceOverTime:    []BalancePoint{},
		Comparison:         cmp,
	}
	for _, c := range p.SpendingByCategory(snap.Transactions) {
		o.SpendingByCategory = append(o.SpendingByCategory, CategorySlice{Category: c.Category, Amount: c.Amount})
	}
	for _, b := range p.BalanceOverTime(snap.Transactions) {
		o.BalanceOverTime = append(o.BalanceOverTime, BalancePoint{Date: b.Date, Balance: b.Balance})
	}
	return o
}

// round keeps two decimals for display; the exact values stay in Comparison.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

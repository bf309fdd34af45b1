package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Syncer pushes the current ledger somewhere else, e.g. a spreadsheet.
type Syncer interface {
	Sync(ctx context.Context) error
}

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often a full sync runs without any trigger (default: 5m)
	PollInterval time.Duration

	// MaxRetries is the number of attempts per run before giving up (default: 3)
	MaxRetries int

	// RetryBackoff is the wait before the first retry; it doubles per attempt (default: 2s)
	RetryBackoff time.Duration
}

func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: 5 * time.Minute,
		MaxRetries:   3,
		RetryBackoff: 2 * time.Second,
	}
}

// SyncStats summarises what the processor has done since it started.
type SyncStats struct {
	Runs        int
	Failures    int
	LastSuccess time.Time
	LastError   string
}

// SyncProcessor runs a Syncer on startup, on every poll tick and whenever
// Trigger is called. Triggers arriving during a run collapse into one
// follow-up run.
type SyncProcessor struct {
	syncer Syncer
	config SyncProcessorConfig
	logger *slog.Logger

	trigger chan struct{}

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	stats   SyncStats
}

func NewSyncProcessor(syncer Syncer, config SyncProcessorConfig, logger *slog.Logger) *SyncProcessor {
	defaults := DefaultSyncProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = defaults.RetryBackoff
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncProcessor{
		syncer:  syncer,
		config:  config,
		logger:  logger,
		trigger: make(chan struct{}, 1),
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.logger.InfoContext(ctx, "Sync processor started",
		"poll_interval", p.config.PollInterval,
		"max_retries", p.config.MaxRetries)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		p.logger.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Trigger asks for a sync soon. It never blocks.
func (p *SyncProcessor) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

func (p *SyncProcessor) Stats() SyncStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Sync immediately on startup
	p.RunOnce(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		case <-p.trigger:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce syncs with retries and exponential backoff. It returns the last
// error when every attempt failed.
func (p *SyncProcessor) RunOnce(ctx context.Context) error {
	var err error
	backoff := p.config.RetryBackoff
	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		if err = p.syncer.Sync(ctx); err == nil {
			p.record(nil)
			return nil
		}
		p.logger.WarnContext(ctx, "Sync attempt failed",
			"attempt", attempt, "max_retries", p.config.MaxRetries, "error", err)
		if attempt == p.config.MaxRetries {
			break
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			p.record(ctx.Err())
			return ctx.Err()
		case <-p.stopping():
			p.record(err)
			return err
		}
	}
	p.logger.ErrorContext(ctx, "Sync failed after max retries", "attempts", p.config.MaxRetries, "error", err)
	p.record(err)
	return err
}

func (p *SyncProcessor) stopping() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopCh
}

func (p *SyncProcessor) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Runs++
	if err != nil {
		p.stats.Failures++
		p.stats.LastError = err.Error()
		return
	}
	p.stats.LastSuccess = time.Now()
	p.stats.LastError = ""
}

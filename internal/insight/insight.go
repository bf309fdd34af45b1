// Package insight asks a language model for a natural-language summary of
// the user's spending.
package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ledgerly/internal/core"

	"golang.org/x/sync/singleflight"
)

// A reply must carry MinItems to MaxItems observations and suggestions.
// Extra items are dropped.
const (
	MinItems = 2
	MaxItems = 3
)

// Insight is the structured reply shown to the user.
type Insight struct {
	Summary      string   `json:"summary"`
	Observations []string `json:"observations"`
	Suggestions  []string `json:"suggestions"`
}

// Provider performs one generation call and returns the raw JSON text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service turns transactions into an Insight through a Provider.
// Concurrent identical requests share one remote call.
type Service struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
	group    singleflight.Group
}

func NewService(provider Provider, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, timeout: timeout, logger: logger}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Request produces an insight for txs. An empty list fails with
// ErrEmptyInput without contacting the provider.
func (s *Service) Request(ctx context.Context, txs []core.Transaction) (Insight, error) {
	if len(txs) == 0 {
		return Insight{}, ErrEmptyInput
	}
	if !s.Enabled() {
		return Insight{}, ErrNotConfigured
	}

	prompt, err := Prompt(BuildPayload(txs))
	if err != nil {
		return Insight{}, fmt.Errorf("render prompt: %w", err)
	}
	sum := sha256.Sum256([]byte(prompt))
	key := hex.EncodeToString(sum[:])

	ch := s.group.DoChan(key, func() (any, error) {
		// Detached so one caller going away does not fail the others.
		callCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
			defer cancel()
		}
		return s.call(callCtx, prompt)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Insight{}, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "Insight reply shared between callers")
		}
		return res.Val.(Insight), nil
	case <-ctx.Done():
		return Insight{}, ctx.Err()
	}
}

func (s *Service) call(ctx context.Context, prompt string) (Insight, error) {
	name := s.provider.Name()
	start := time.Now()
	raw, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Insight generation failed", "provider", name, "error", err)
		return Insight{}, &RemoteCallError{Provider: name, Err: err}
	}
	in, err := ParseReply(raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "Insight reply rejected", "provider", name, "error", err)
		return Insight{}, &RemoteCallError{Provider: name, Err: err}
	}
	s.logger.InfoContext(ctx, "Insight generated", "provider", name,
		"duration_ms", time.Since(start).Milliseconds())
	return in, nil
}

// ParseReply decodes a model reply. Code fences around the JSON are
// tolerated; a blank summary or a list that is too short is not.
func ParseReply(raw string) (Insight, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var in Insight
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &in); err != nil {
		return Insight{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	in.Summary = strings.TrimSpace(in.Summary)
	in.Observations = clean(in.Observations)
	in.Suggestions = clean(in.Suggestions)

	switch {
	case in.Summary == "":
		return Insight{}, fmt.Errorf("%w: empty summary", ErrMalformedReply)
	case len(in.Observations) < MinItems:
		return Insight{}, fmt.Errorf("%w: %d observations, want at least %d", ErrMalformedReply, len(in.Observations), MinItems)
	case len(in.Suggestions) < MinItems:
		return Insight{}, fmt.Errorf("%w: %d suggestions, want at least %d", ErrMalformedReply, len(in.Suggestions), MinItems)
	}
	return in, nil
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
		if len(out) == MaxItems {
			break
		}
	}
	return out
}

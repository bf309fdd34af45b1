package insight

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerly/internal/config"
)

// NewServiceFromConfig builds the provider named by INSIGHT_PROVIDER. With
// no provider the returned service reports Enabled() == false.
func NewServiceFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	var provider Provider
	switch cfg.InsightProvider {
	case "", "none":
	case "gemini":
		p, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		provider = p
	case "openai":
		provider = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown insight provider %q", cfg.InsightProvider)
	}
	return NewService(provider, cfg.InsightTimeout, logger), nil
}

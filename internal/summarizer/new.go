package summarizer

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/config"
	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
)

type implSummarizer struct {
	cfg    config.SummarizerConfig
	client completer
	logger logger.Logger
	now    func() time.Time
}

// New creates a Summarizer for the configured provider. Credentials are not
// checked here; callers validate them with config.RequireSummarizer.
func New(cfg config.SummarizerConfig, log logger.Logger) (Summarizer, error) {
	var client completer
	switch cfg.Provider {
	case config.ProviderAnthropic:
		client = &anthropicClient{
			baseURL:     cfg.BaseURL,
			apiKey:      cfg.APIKey,
			model:       cfg.Model,
			maxTokens:   cfg.MaxTokens,
			temperature: cfg.Temperature,
			http:        &http.Client{Timeout: cfg.Timeout},
		}
	case config.ProviderGemini:
		client = &geminiClient{
			baseURL:     cfg.BaseURL,
			apiKey:      cfg.APIKey,
			model:       cfg.Model,
			maxTokens:   cfg.MaxTokens,
			temperature: cfg.Temperature,
			timeout:     cfg.Timeout,
		}
	default:
		return nil, errdefs.Configf("unknown summarizer provider %q", cfg.Provider)
	}

	return &implSummarizer{
		cfg:    cfg,
		client: client,
		logger: log,
		now:    time.Now,
	}, nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/llm"
	"github.com/Veraticus/eco-ledger/internal/service"
	"github.com/spf13/viper"
)

// newExtractor builds the activity extractor; tests replace it with a fake.
var newExtractor = func(factors *footprint.FactorTable) (service.ActivityExtractor, error) {
	cfg, err := llmConfig()
	if err != nil {
		return nil, err
	}

	extractor, err := llm.NewExtractor(cfg, factors, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create activity extractor: %w", err)
	}
	return extractor, nil
}

// llmConfig reads the llm.* settings, falling back to provider API key
// environment variables.
func llmConfig() (llm.Config, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	if provider == "" {
		provider = "openai" // default provider
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		Timeout:     viper.GetDuration("llm.timeout"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60 // requests per minute
	}

	var keyName, envName string
	switch provider {
	case "openai":
		keyName, envName = "llm.openai_api_key", "OPENAI_API_KEY"
	case "anthropic":
		keyName, envName = "llm.anthropic_api_key", "ANTHROPIC_API_KEY"
	default:
		return llm.Config{}, common.NewUserError(fmt.Sprintf("Unsupported LLM provider %q (use openai or anthropic)", provider), common.ErrInvalidConfig)
	}

	cfg.APIKey = viper.GetString(keyName)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envName)
	}
	if cfg.APIKey == "" {
		return llm.Config{}, common.NewUserError(
			fmt.Sprintf("No API key for %s. Set %s in the config or the %s environment variable", provider, keyName, envName),
			common.ErrMissingConfig)
	}

	return cfg, nil
}

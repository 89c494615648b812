package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/service"
)

const extractionSystemPrompt = `You convert one short description of a daily activity into JSON for a carbon footprint ledger.
You MUST respond with ONLY a valid JSON object with exactly these keys:
{"category": string, "quantity": number or null, "unit": string or null, "variant": string, "insufficient": boolean, "missing": [string]}
Never estimate or guess a quantity or unit that the text does not state. If either is absent, set it to null and list it in "missing".
If the text does not describe a measurable activity, set "insufficient" to true.
Do not compute emissions.`

const tipsSystemPrompt = `You are a sustainability coach. Reply with plain lines only, no headings or commentary.`

// Extractor reads free text into untrusted extractions and asks for eco tips.
type Extractor struct {
	client      Client
	cache       *extractionCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	factors     *footprint.FactorTable
	retryOpts   service.RetryOptions
}

// NewExtractor creates an extractor for the configured provider. The factor
// table, when given, tells the model which variants the ledger can price.
func NewExtractor(cfg Config, factors *footprint.FactorTable, logger *slog.Logger) (*Extractor, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewExtractorWithClient(client, cfg, factors, logger), nil
}

// NewExtractorWithClient wraps an existing client.
func NewExtractorWithClient(client Client, cfg Config, factors *footprint.FactorTable, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Extractor{
		client:      client,
		cache:       newExtractionCache(cfg.CacheTTL),
		logger:      logger,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		factors:     factors,
		retryOpts:   retryOpts,
	}
}

// ExtractActivity asks the model to structure text. The result is untrusted
// and must go through the ledger, which validates it and computes emissions.
// Blank text is reported as insufficient without calling the model.
func (e *Extractor) ExtractActivity(ctx context.Context, text string) (footprint.Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return footprint.Extraction{Insufficient: true}, nil
	}

	if cached, ok := e.cache.get(text); ok {
		e.logger.Debug("cache hit for extraction", "text", text)
		cached.Description = text
		return cached, nil
	}

	if err := e.rateLimiter.wait(ctx); err != nil {
		return footprint.Extraction{}, fmt.Errorf("rate limit error: %w", err)
	}

	prompt := e.buildExtractionPrompt(text)

	var extraction footprint.Extraction
	err := common.WithRetry(ctx, func() error {
		content, err := e.client.Complete(ctx, extractionSystemPrompt, prompt)
		if err != nil {
			e.logger.Warn("extraction attempt failed", "error", err)
			return err
		}

		parsed, err := parseExtraction(content, text)
		if err != nil {
			e.logger.Warn("unparseable extraction reply", "error", err)
			return &common.RetryableError{Err: err, Retryable: true}
		}

		extraction = parsed
		return nil
	}, e.retryOpts)
	if err != nil {
		return footprint.Extraction{}, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	e.cache.set(text, extraction)

	e.logger.Info("activity extracted",
		"category", extraction.Category,
		"unit", extraction.Unit,
		"variant", extraction.Variant,
		"insufficient", extraction.Insufficient)

	return extraction, nil
}

// SuggestTips asks for three footprint reduction tips tailored to records.
func (e *Extractor) SuggestTips(ctx context.Context, records []model.ActivityRecord) ([]model.EcoTip, error) {
	if err := e.rateLimiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	prompt := buildTipsPrompt(records)

	var tips []model.EcoTip
	err := common.WithRetry(ctx, func() error {
		content, err := e.client.Complete(ctx, tipsSystemPrompt, prompt)
		if err != nil {
			e.logger.Warn("tips attempt failed", "error", err)
			return err
		}

		tips = parseTips(content)
		if len(tips) == 0 {
			return &common.RetryableError{Err: common.ErrNoSuggestions, Retryable: true}
		}
		return nil
	}, e.retryOpts)
	if err != nil {
		if errors.Is(err, common.ErrNoSuggestions) {
			return nil, common.ErrNoSuggestions
		}
		return nil, fmt.Errorf("failed to get tips: %w", err)
	}

	if len(tips) > 3 {
		tips = tips[:3]
	}
	return tips, nil
}

func (e *Extractor) buildExtractionPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Categories and the units each accepts:\n")
	for _, category := range model.Categories {
		units := make([]string, 0, len(category.Units()))
		for _, u := range category.Units() {
			units = append(units, string(u))
		}
		fmt.Fprintf(&b, "- %s: %s\n", category, strings.Join(units, ", "))
	}

	if variants := e.knownVariants(); len(variants) > 0 {
		b.WriteString("\nKnown variants (leave \"variant\" empty when none fits):\n")
		for _, line := range variants {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\nActivity: %q\n", text)
	return b.String()
}

// knownVariants lists "category/unit: a, b" lines for every pair with named variants.
func (e *Extractor) knownVariants() []string {
	if e.factors == nil {
		return nil
	}

	byPair := make(map[string][]string)
	for _, f := range e.factors.Factors() {
		if f.Key.Variant == "" {
			continue
		}
		pair := fmt.Sprintf("%s/%s", f.Key.Category, f.Key.Unit)
		byPair[pair] = append(byPair[pair], f.Key.Variant)
	}

	lines := make([]string, 0, len(byPair))
	for pair, variants := range byPair {
		sort.Strings(variants)
		lines = append(lines, fmt.Sprintf("%s: %s", pair, strings.Join(variants, ", ")))
	}
	sort.Strings(lines)
	return lines
}

func buildTipsPrompt(records []model.ActivityRecord) string {
	var b strings.Builder

	b.WriteString("Generate 3 personalized eco-suggestions based on these activities:\n")
	if len(records) == 0 {
		b.WriteString("- no activities recorded yet\n")
	}
	for _, r := range records {
		label := r.Description
		if label == "" {
			label = string(r.Category)
		}
		fmt.Fprintf(&b, "- %s: %g %s (%.2f kg CO2e)\n", label, r.Quantity, r.Unit, r.EmissionKg)
	}

	categories := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		categories = append(categories, string(c))
	}

	fmt.Fprintf(&b, "\nFormat each line as: Suggestion|Impact Level|Category\n")
	fmt.Fprintf(&b, "Impact Level is one of low, medium, high. Category is one of %s.\n", strings.Join(categories, ", "))
	b.WriteString("Example: Use reusable bags|High|waste\n")
	return b.String()
}

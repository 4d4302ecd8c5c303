package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/bookbrief/internal/anthropic"
	"github.com/lehigh-university-libraries/bookbrief/internal/catalog"
	"github.com/lehigh-university-libraries/bookbrief/internal/config"
	"github.com/lehigh-university-libraries/bookbrief/internal/gemini"
	"github.com/lehigh-university-libraries/bookbrief/internal/ollama"
	"github.com/lehigh-university-libraries/bookbrief/internal/openai"
	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
	"github.com/lehigh-university-libraries/bookbrief/internal/summary"
)

// newProvider builds the configured generation provider. The returned
// close function is always non-nil.
func newProvider(ctx context.Context, gen config.Generation) (providers.Provider, func(), error) {
	var (
		p   providers.Provider
		err error
	)

	switch gen.Provider {
	case "gemini":
		p, err = gemini.New(ctx, gen.APIKey)
	case "openai":
		p, err = openai.New(gen.APIKey, gen.BaseURL)
	case "anthropic":
		p, err = anthropic.New(gen.APIKey)
	case "ollama":
		p = ollama.New(gen.BaseURL)
	default:
		return nil, func() {}, fmt.Errorf("unsupported provider: %s (supported: gemini, openai, anthropic, ollama)", gen.Provider)
	}
	if err != nil {
		return nil, func() {}, err
	}

	closeFn := func() {}
	if c, ok := p.(io.Closer); ok {
		closeFn = func() {
			if err := c.Close(); err != nil {
				slog.Warn("Failed to close provider", "provider", gen.Provider, "err", err)
			}
		}
	}
	return p, closeFn, nil
}

// newMatcher builds the catalog matcher. Strategy none never searches, so
// no backend credentials are required for it.
func newMatcher(cat config.Catalog) (*catalog.Matcher, error) {
	strategy, err := catalog.ParseStrategy(cat.Strategy)
	if err != nil {
		return nil, err
	}

	var searcher catalog.Searcher
	if strategy != catalog.StrategyNone {
		searcher, err = catalog.NewSearcher(cat.Backend, cat.APIKey, cat.Timeout)
		if err != nil {
			return nil, err
		}
	}

	return catalog.NewMatcher(searcher, strategy,
		catalog.WithThreshold(cat.Threshold),
		catalog.WithMaxResults(cat.MaxResults),
	), nil
}

// settingsFromConfig maps configuration onto service limits
func settingsFromConfig(cfg *config.Config) (summary.Settings, error) {
	output, err := summary.ParseOutputMode(cfg.Generation.Output)
	if err != nil {
		return summary.Settings{}, err
	}

	model := cfg.Generation.Model
	if model == "" {
		model = providers.DefaultModel(cfg.Generation.Provider)
	}

	settings := summary.DefaultSettings()
	settings.DefaultCount = cfg.Generation.DefaultCount
	settings.MaxCount = cfg.Generation.MaxCount
	settings.AnnotateShortfall = cfg.Generation.AnnotateShortfall
	settings.RequestTimeout = cfg.Server.RequestTimeout
	settings.Options = summary.Options{
		Model:              model,
		Temperature:        cfg.Generation.Temperature,
		MaxOutputTokens:    cfg.Generation.MaxOutputTokens,
		Output:             output,
		ParseRetries:       cfg.Generation.ParseRetries,
		ContinuationRounds: cfg.Generation.ContinuationRounds,
	}
	return settings, nil
}

// newService wires the summary service from configuration
func newService(ctx context.Context, cfg *config.Config) (*summary.Service, func(), error) {
	settings, err := settingsFromConfig(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	matcher, err := newMatcher(cfg.Catalog)
	if err != nil {
		return nil, func() {}, err
	}

	provider, closeFn, err := newProvider(ctx, cfg.Generation)
	if err != nil {
		return nil, func() {}, err
	}

	slog.Debug("Summary service configured",
		"provider", provider.Name(),
		"model", settings.Options.Model,
		"catalog", cfg.Catalog.Backend,
		"strategy", matcher.Strategy(),
		"threshold", matcher.Threshold())

	return summary.NewService(matcher, provider, settings), closeFn, nil
}

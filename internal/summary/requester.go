package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
)

// Requester runs the initial generation for a book
type Requester struct {
	provider providers.Provider
	opts     Options
}

// NewRequester creates a requester that calls provider within opts
func NewRequester(provider providers.Provider, opts Options) *Requester {
	return &Requester{provider: provider, opts: opts}
}

// Request generates the intro and sentences using the configured output mode
func (r *Requester) Request(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	if r.opts.Output == OutputText {
		return r.RequestText(ctx, req)
	}
	return r.RequestStructured(ctx, req)
}

// RequestStructured demands the summary JSON object. A response that does not
// parse (or a failed call) is retried up to ParseRetries more times, each retry
// quoting the previous raw output. Exhausting retries returns ErrParseFailure.
func (r *Requester) RequestStructured(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	attempts := min(max(r.opts.ParseRetries, 0), MaxParseRetries) + 1

	var lastErr error
	previous := ""
	for attempt := 1; attempt <= attempts; attempt++ {
		prompt := buildStructuredPrompt(req)
		if previous != "" {
			prompt = buildRetryPrompt(req, previous)
		}

		raw, err := r.provider.GenerateText(ctx, r.config(prompt, providers.FormatJSONObject))
		if err != nil {
			lastErr = err
			slog.Warn("Generation call failed", "provider", r.provider.Name(), "attempt", attempt, "err", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result, err := parseStructured(raw)
		if err != nil {
			lastErr = err
			previous = raw
			slog.Warn("Failed to parse structured response", "provider", r.provider.Name(), "attempt", attempt, "err", err)
			continue
		}

		if len(result.Sentences) > req.RequestedCount {
			result.Sentences = result.Sentences[:req.RequestedCount]
		}
		slog.Debug("Structured response parsed",
			"attempt", attempt,
			"exists", result.Exists,
			"sentences", len(result.Sentences))
		return result, nil
	}

	return GenerationResult{}, fmt.Errorf("%w after %d attempts: %v", ErrParseFailure, attempts, lastErr)
}

// RequestText asks for free text and splits it with the sentence extractor.
// Existence is not reported in this mode and is assumed.
func (r *Requester) RequestText(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	raw, err := r.provider.GenerateText(ctx, r.config(buildTextPrompt(req), providers.FormatText))
	if err != nil {
		return GenerationResult{}, fmt.Errorf("failed to generate summary: %w", err)
	}

	result := parseText(raw)
	if len(result.Sentences) > req.RequestedCount {
		result.Sentences = result.Sentences[:req.RequestedCount]
	}
	return result, nil
}

func (r *Requester) config(prompt string, format providers.Format) providers.Config {
	return providers.Config{
		Model:       r.opts.Model,
		Temperature: r.opts.Temperature,
		MaxTokens:   r.opts.MaxOutputTokens,
		Format:      format,
		Prompt:      prompt,
	}
}

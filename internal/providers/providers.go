package providers

import (
	"context"
)

// Format is the shape of output requested from the model
type Format int

const (
	// FormatText asks for free text
	FormatText Format = iota
	// FormatJSONObject asks for a single JSON object (the summary schema)
	FormatJSONObject
	// FormatJSONArray asks for a bare JSON array of strings
	FormatJSONArray
)

// Config represents the configuration for an LLM provider call
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Format      Format
	Prompt      string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, config Config) (string, error)
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.0-flash"
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}

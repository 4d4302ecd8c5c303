// Package summary generates book introductions and fixed-length summaries,
// topping up the sentence count when the model under-delivers.
package summary

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParseFailure means the model never produced output matching the schema
	ErrParseFailure = errors.New("model output could not be parsed")
	// ErrEmptyTitle means the request carried no title
	ErrEmptyTitle = errors.New("title is required")
)

// Hard limits that configuration may lower but never raise
const (
	MaxParseRetries       = 2
	MaxContinuationRounds = 3
	MaxSentences          = 70
)

// OutputMode selects how the initial generation is requested and parsed
type OutputMode string

const (
	// OutputSchema demands a strict JSON object
	OutputSchema OutputMode = "schema"
	// OutputText asks for an intro and sentences as free text
	OutputText OutputMode = "text"
)

// ParseOutputMode validates an output mode from configuration
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case OutputSchema, "":
		return OutputSchema, nil
	case OutputText:
		return OutputText, nil
	default:
		return "", fmt.Errorf("unsupported output mode: %s", s)
	}
}

// GenerationRequest is everything the model is told about one book
type GenerationRequest struct {
	Title          string
	Authors        string
	Description    string
	Style          string
	RequestedCount int
}

// GenerationResult is the parsed model output
type GenerationResult struct {
	Exists         bool
	CorrectedTitle string
	Intro          string
	Sentences      []string
}

// Options bounds the calls made to the generation provider
type Options struct {
	Model              string
	Temperature        float64
	MaxOutputTokens    int
	Output             OutputMode
	ParseRetries       int
	ContinuationRounds int
}

// DefaultOptions returns the bounds used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Temperature:        0,
		MaxOutputTokens:    4096,
		Output:             OutputSchema,
		ParseRetries:       2,
		ContinuationRounds: 3,
	}
}
